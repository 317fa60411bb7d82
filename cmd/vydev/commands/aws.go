package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/nsbno/vydev-migrate/cmd/vydev/opts"
	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// NewAWSCmd creates the `vydev aws` command for the team's central -aws
// repository.
func NewAWSCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "aws",
		Short: "Upgrade the team's -aws repository for GitHub Actions",
		Long: `AWS prepares the team's central -aws repository: it adds or upgrades the
GitHub OIDC module in the infrastructure and service environments and
bumps the shared loadbalancer module to a version with a test listener.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			isAWS, err := o.Migration.IsAWSRepo()
			if err != nil {
				return err
			}
			if !isAWS {
				o.Console.Warn("This repo doesn't end with `-aws`.")
				o.Console.Println("This is just a safety check to make sure you're not upgrading the wrong repo.")
				ok, err := o.Console.Confirm("Is this repo your team's AWS repo?")
				if err != nil {
					return err
				}
				if !ok {
					o.Console.Println("Ok, aborting! Just start the tool again when you are in the right repo.")
					return nil
				}
			}

			ok, err := checkCleanState(ctx, o)
			if err != nil || !ok {
				return err
			}

			o.Console.Header("Upgrade AWS Repo")

			infraGuess := ""
			if folder, err := o.Migration.FindTerraformInfrastructureFolder(); err == nil {
				infraGuess = folder
			}
			infraFolder, err := o.Console.Ask("Enter the terraform template/infrastructure folder path", infraGuess)
			if err != nil {
				return err
			}

			serviceGuess := ""
			if folder, err := o.Migration.FindTerraformEnvironmentFolder("service"); err == nil {
				serviceGuess = folder
			}
			serviceFolder, err := o.Console.Ask("Enter the terraform service environment folder path", serviceGuess)
			if err != nil {
				return err
			}

			o.Console.Working("Upgrading AWS repo...")
			if err := o.Migration.UpgradeAWSRepoTerraformResources(infraFolder); err != nil {
				return err
			}
			if err := o.Migration.UpgradeAWSRepoTerraformResources(serviceFolder); err != nil {
				return err
			}

			if err := o.Migration.UpgradeAWSRepoALBResources(infraFolder); err != nil {
				if !errors.Is(err, migration.ErrNotFound) {
					return err
				}
				o.Console.Warn("The ALB module was not found in the terraform infrastructure folder. " +
					"Please migrate to it manually. " +
					"It can be found at: https://github.com/nsbno/terraform-aws-loadbalancer")
				if _, err := o.Console.Confirm("Have you migrated to using the ALB module?"); err != nil {
					return err
				}
			}
			o.Console.Success("AWS repo upgraded successfully!")

			if err := printChangedFiles(ctx, o); err != nil {
				return err
			}
			o.Console.Println("Please review, commit, and push the changes before proceeding.")
			return nil
		},
	}
}
