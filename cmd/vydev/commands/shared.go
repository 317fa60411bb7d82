// Package commands implements the vydev subcommands.
package commands

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/nsbno/vydev-migrate/cmd/vydev/opts"
	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// checkCleanState warns about uncommitted changes and asks whether to
// continue. It returns false when the user wants to abort.
func checkCleanState(ctx context.Context, o *opts.RootOpts) (bool, error) {
	clean, err := o.Migration.IsRepoInCleanState(ctx)
	if err != nil {
		return false, err
	}
	if clean {
		return true, nil
	}

	o.Console.Warn("The git repository has uncommitted changes.")
	o.Console.Println("It is recommended to commit or stash your existing changes before proceeding.")
	return o.Console.Confirm("Do you want to continue anyway?")
}

// collectConfig walks the user through the migration questions, seeding
// defaults from (in order) the override file, the cached answers from
// `vydev prepare`, and detection. Overridden answers skip the prompt.
func collectConfig(ctx context.Context, o *opts.RootOpts, cached *migration.Config) (migration.Config, error) {
	var cfg migration.Config

	// Terraform infrastructure folder.
	if o.Overrides != nil && o.Overrides.TerraformFolder != "" {
		cfg.TerraformFolder = o.Overrides.TerraformFolder
	} else {
		guess := ""
		if cached != nil {
			guess = cached.TerraformFolder
		} else if folder, err := o.Migration.FindTerraformInfrastructureFolder(); err == nil {
			guess = folder
		}
		if guess == "" {
			o.Console.Hint("The terraform infrastructure folder is the parent directory of test, stage, service and prod.")
		}
		folder, err := o.Console.Ask("Enter the terraform infrastructure folder path", guess)
		if err != nil {
			return cfg, err
		}
		cfg.TerraformFolder = folder
	}

	// ECR repository name.
	o.Console.Divider()
	if o.Overrides != nil && o.Overrides.RepositoryName != "" {
		cfg.RepositoryName = o.Overrides.RepositoryName
	} else {
		guess := ""
		if cached != nil {
			guess = cached.RepositoryName
		} else if name, err := o.Migration.FindApplicationName(cfg.TerraformFolder); err == nil {
			guess = name
		}
		if guess == "" {
			o.Console.Hint("The ECR repo name may be found in the `service` environment of your -aws repo.")
		}
		name, err := o.Console.Ask("What is the name of the service's ECR Repository?", guess)
		if err != nil {
			return cfg, err
		}
		cfg.RepositoryName = name
	}

	// Service name.
	o.Console.Divider()
	if o.Overrides != nil && o.Overrides.ApplicationName != "" {
		cfg.ApplicationName = o.Overrides.ApplicationName
	} else {
		guess := ""
		if cached != nil {
			guess = cached.ApplicationName
		}
		if guess == "" {
			o.Console.Hint("The service name can be found in the Terraform file where the ECS service or Lambda function is defined.")
		}
		name, err := o.Console.Ask("What is the service name?", guess)
		if err != nil {
			return cfg, err
		}
		cfg.ApplicationName = name
	}

	// Build tool.
	if tool := buildToolOverride(o); tool != "" {
		cfg.BuildTool = migration.BuildTool(tool)
	} else {
		guess := ""
		if cached != nil {
			guess = string(cached.BuildTool)
		} else if tool, err := o.Migration.FindBuildTool(); err == nil {
			guess = string(tool)
		}
		o.Console.Divider()
		tool, err := o.Console.Select("Select the application build tool", []string{
			string(migration.BuildToolGradle),
			string(migration.BuildToolPython),
		}, guess)
		if err != nil {
			return cfg, err
		}
		cfg.BuildTool = migration.BuildTool(tool)
	}

	// Runtime target.
	if target := runtimeTargetOverride(o); target != "" {
		cfg.RuntimeTarget = migration.RuntimeTarget(target)
	} else {
		guess := ""
		if cached != nil {
			guess = string(cached.RuntimeTarget)
		} else if target, err := o.Migration.FindAWSRuntime(cfg.TerraformFolder); err == nil {
			guess = string(target)
		}
		o.Console.Divider()
		target, err := o.Console.Select("Select the application runtime target", []string{
			string(migration.RuntimeTargetLambda),
			string(migration.RuntimeTargetECS),
		}, guess)
		if err != nil {
			return cfg, err
		}
		cfg.RuntimeTarget = migration.RuntimeTarget(target)
	}

	return cfg, nil
}

func buildToolOverride(o *opts.RootOpts) string {
	if o.Overrides == nil {
		return ""
	}
	return o.Overrides.BuildTool
}

func runtimeTargetOverride(o *opts.RootOpts) string {
	if o.Overrides == nil {
		return ""
	}
	return o.Overrides.RuntimeTarget
}

// setupGithubEnvironments figures out the account IDs per environment and
// creates the matching GitHub environments, either through the API or by
// walking the user through manual setup.
func setupGithubEnvironments(ctx context.Context, o *opts.RootOpts) (map[string]string, error) {
	environmentFolders, err := o.Migration.FindAllEnvironmentFolders()
	if err != nil {
		return nil, err
	}

	setup, err := o.Migration.HelpWithGithubEnvironmentSetup(ctx, environmentFolders)
	if err != nil {
		return nil, err
	}
	accounts := setup.AccountIDs

	if _, ok := accounts["Service"]; !ok {
		// Not every repository keeps a service environment folder.
		account, err := o.Console.Ask("What is the account ID of your service account?", "")
		if err != nil {
			return nil, err
		}
		accounts["Service"] = account
	}

	for environment, account := range accounts {
		if account != "" {
			continue
		}
		account, err := o.Console.Ask(
			fmt.Sprintf("What is the account ID for the %s environment?", environment), "")
		if err != nil {
			return nil, err
		}
		accounts[environment] = account
	}

	if o.GithubReady {
		o.Console.Working("Creating GitHub environments...")
		if err := o.Migration.InitializeGithubEnvironments(ctx, accounts, setup.RepoAddress); err != nil {
			return nil, errors.Errorf("initializing GitHub environments: %w", err)
		}
		o.Console.Success("GitHub environments created successfully!")
		return accounts, nil
	}

	o.Console.Warn("GitHub API is not available. Please create the environments manually:")
	for environment, account := range accounts {
		o.Console.Println(fmt.Sprintf("Visit %s to set up:", setup.SettingsURL))
		o.Console.Println("   - Name: " + environment)
		o.Console.Println("   - Environment variable: AWS_ACCOUNT_ID=" + account)
		err := o.Console.ConfirmUntilYes(
			fmt.Sprintf("Have you created the %q environment?", environment),
			"Please complete the environment setup before continuing.")
		if err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func printChangedFiles(ctx context.Context, o *opts.RootOpts) error {
	files, err := o.Migration.ChangedFiles(ctx)
	if err != nil {
		return err
	}
	o.Console.Println("")
	o.Console.Println("The following files have changes: " + strings.Join(files, ", "))
	return nil
}
