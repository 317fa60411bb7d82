package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/nsbno/vydev-migrate/cmd/vydev/opts"
	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// temporaryVersion seeds the version parameter until the first real
// deployment overwrites it.
const temporaryVersion = "latest"

// NewApplicationCmd creates the `vydev application` command, stage two of
// the migration.
func NewApplicationCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "application",
		Short: "Migrate an application repository to the new pipeline",
		Long: `Application migrates the repository's deployment to GitHub Actions: it
upgrades the Terraform modules and providers, swaps the artifact-service
image reference for a direct ECR lookup, writes the deployment
workflows, and removes the old pipeline's files.

Run 'vydev prepare' first so the PR workflows exist on the main branch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ok, err := checkCleanState(ctx, o)
			if err != nil || !ok {
				return err
			}

			o.Console.Header("Upgrade Application Repo")

			cached, err := o.Cache.Load()
			if err != nil {
				return err
			}
			if cached != nil {
				o.Console.Println("Using cached configuration from 'vydev prepare'...")
			}

			// Fail before touching anything if the AWS CLI profiles are
			// not set up for the environment accounts.
			if _, err := o.Migration.FindEnvironmentAWSProfiles(ctx); err != nil {
				o.Console.Error(err.Error())
				o.Console.Println("Please make sure you have set up AWS CLI profiles for all AWS environments.")
				return errors.Errorf("resolving AWS profiles: %w", err)
			}

			cfg, err := collectConfig(ctx, o, cached)
			if err != nil {
				return err
			}

			o.Console.Divider()
			accounts, err := setupGithubEnvironments(ctx, o)
			if err != nil {
				return err
			}

			environmentFolders, err := o.Migration.FindAllEnvironmentFolders()
			if err != nil {
				return err
			}
			terraformFolders := append([]string{cfg.TerraformFolder}, environmentFolders...)

			o.Console.Working("Upgrading application terraform resources...")
			if err := o.Migration.UpgradeAWSProviderVersions(ctx, terraformFolders); err != nil {
				return err
			}
			if err := o.Migration.UpgradeVyProviderVersions(ctx, terraformFolders); err != nil {
				return err
			}
			if err := o.Migration.UpgradeTerraformApplicationResources(cfg.TerraformFolder); err != nil {
				return err
			}
			if cfg.RuntimeTarget == migration.RuntimeTargetECS {
				err := o.Migration.ReplaceImageWithECRRepositoryURL(cfg.TerraformFolder, cfg.RepositoryName, accounts["Service"])
				if err != nil {
					return err
				}
			}
			o.Console.Success("Application terraform resources upgraded successfully!")

			o.Console.Working("Seeding version parameters in AWS...")
			if err := o.Migration.CreateVersionParameters(ctx, cfg.ApplicationName, temporaryVersion); err != nil {
				return err
			}

			o.Console.Working("Creating GitHub Actions workflows...")
			if err := o.Migration.CreateAllWorkflows(cfg); err != nil {
				return err
			}
			o.Console.Success("GitHub Actions workflows created successfully!")

			o.Console.Working("Removing old deployment setup...")
			if err := o.Migration.RemoveOldDeploymentSetup(); err != nil {
				return err
			}
			o.Console.Success("Old deployment setup removed successfully!")

			if err := printChangedFiles(ctx, o); err != nil {
				return err
			}
			o.Console.Println("Please review, commit and push the changes before proceeding.")
			return nil
		},
	}
}
