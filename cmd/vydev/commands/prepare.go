package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nsbno/vydev-migrate/cmd/vydev/opts"
)

// NewPrepareCmd creates the `vydev prepare` command, stage one of the
// migration.
func NewPrepareCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Set up PR workflows and GitHub environments",
		Long: `Prepare is stage one of the migration. It generates the pull-request
workflows and sets up the GitHub deployment environments, so the full
migration can be tested safely from a pull request before anything on
the main branch changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ok, err := checkCleanState(ctx, o)
			if err != nil || !ok {
				return err
			}

			o.Console.Header("Setup PR Workflows")
			o.Console.Println("")
			o.Console.Println("Before migrating your deployment pipeline, we'll set up PR workflows that")
			o.Console.Println("let you test all the migration changes safely.")
			o.Console.Println("")

			cfg, err := collectConfig(ctx, o, nil)
			if err != nil {
				return err
			}
			cfg.Timestamp = time.Now()

			// The answers are reused by `vydev application`.
			if err := o.Cache.Save(cfg); err != nil {
				return err
			}
			if err := o.Migration.EnsureCacheInGitignore(); err != nil {
				return err
			}

			o.Console.Divider()
			o.Console.Println("Setting up GitHub environments")
			if _, err := setupGithubEnvironments(ctx, o); err != nil {
				return err
			}

			o.Console.Working("Generating PR workflows...")
			if err := o.Migration.GeneratePRWorkflows(cfg); err != nil {
				return err
			}
			o.Console.Success("GitHub Actions PR workflows created successfully!")

			if err := printChangedFiles(ctx, o); err != nil {
				return err
			}

			o.Console.Header("PR Workflows Ready!")
			o.Console.Println("")
			o.Console.Println("Next steps:")
			o.Console.Println("  1. Review the generated workflow files")
			o.Console.Println("  2. Commit and push to main:")
			o.Console.Println("     git add .github/workflows/")
			o.Console.Println(`     git commit -m "Add GitHub Actions PR workflows"`)
			o.Console.Println("     git push")
			o.Console.Println("  3. Run 'vydev application' to create the migration PR")
			return nil
		},
	}
}
