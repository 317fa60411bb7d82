// Package migration moves a repository from the old CircleCI deployment
// pipeline to GitHub Actions. It holds the migration steps themselves and
// talks to the outside world through small interfaces so each step stays
// testable.
package migration

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/nsbno/vydev-migrate/pkg/terraform"
)

// ErrNotFound marks lookups whose subject does not exist in the repository.
var ErrNotFound = terraform.ErrNotFound

// CacheFileName is the cached prepare-stage config, written to the
// repository root.
const CacheFileName = ".vydev-cli-cache.json"

// Module versions the migration upgrades to.
const (
	githubOIDCVersion      = "0.1.0"
	loadbalancerVersion    = "5.1.0"
	ecsServiceVersion      = "3.0.0"
	lambdaVersion          = "2.0.0-beta1"
	springBootVersion      = "3.0.0"
	accountMetadataVersion = "0.5.0"
)

const (
	awsProviderConstraint = ">= 6.15.0, < 7.0.0"
	vyProviderConstraint  = ">= 1.1.0, < 2.0.0"
)

// circleCINoOpConfig keeps CircleCI from failing on pushes after the real
// pipeline moves to GitHub Actions.
const circleCINoOpConfig = `version: 2.1

jobs:
  no_op:
    type: no-op

workflows:
  no_op_workflow:
    jobs: [no_op]
`

// Migration carries a repository from the old deployment pipeline to the
// new one. All fields are required.
type Migration struct {
	Files     FileHandler
	VCS       VersionControl
	Registry  ModuleRegistry
	Modules   ModuleEditor
	Providers ProviderEditor
	Services  ServiceEditor
	Workflows WorkflowAuthor
	Github    GithubAPI
	AWS       AWS
	App       AppContext
}

func (m *Migration) findFolder(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if m.Files.FolderExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// FindTerraformInfrastructureFolder locates the folder holding the
// application's shared Terraform configuration.
func (m *Migration) FindTerraformInfrastructureFolder() (string, error) {
	folder, ok := m.findFolder([]string{
		"terraform/template",
		"terraform/modules/template",
		"infrastructure",
		"modules/environment_account_setup",
	})
	if !ok {
		return "", errors.Errorf("terraform infrastructure folder: %w", ErrNotFound)
	}
	return folder, nil
}

// FindTerraformEnvironmentFolder locates the folder for one runtime
// environment, e.g. "test" or "prod".
func (m *Migration) FindTerraformEnvironmentFolder(environment string) (string, error) {
	folder, ok := m.findFolder([]string{
		filepath.Join("terraform", environment),
		filepath.Join("terraform", "environment", environment),
		filepath.Join("environments", environment),
	})
	if !ok {
		return "", errors.Errorf("terraform folder for environment %q: %w", environment, ErrNotFound)
	}
	return folder, nil
}

// HasServiceEnvironment reports whether the repository has a shared
// "service" environment folder.
func (m *Migration) HasServiceEnvironment() bool {
	_, err := m.FindTerraformEnvironmentFolder("service")
	return err == nil
}

// RequiresCustomAWSRole reports whether the repository belongs to a team
// whose AWS accounts use a legacy GitHub Actions role name.
func (m *Migration) RequiresCustomAWSRole() (bool, error) {
	name, err := m.Files.CurrentFolderName()
	if err != nil {
		return false, err
	}
	name = strings.ToLower(name)
	for _, prefix := range customAWSRolePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// AWSRoleName returns the custom GitHub Actions role name for teams that
// need one, and "" for everyone else.
func (m *Migration) AWSRoleName() (string, error) {
	custom, err := m.RequiresCustomAWSRole()
	if err != nil {
		return "", err
	}
	if custom {
		// The name drifts-informasjon and alternativ-transport already use
		// in their accounts, set up before the shared convention existed.
		return "github_actions_assume_role", nil
	}
	return "", nil
}

var environmentFolderNames = []string{
	"service",
	"dev",
	"development",
	"test",
	"testing",
	"stage",
	"staging",
	"prod",
	"production",
}

// FindAllEnvironmentFolders returns every environment folder in the
// repository, across the known layout conventions.
func (m *Migration) FindAllEnvironmentFolders() ([]string, error) {
	var folders []string
	for _, parent := range []string{"terraform", "environments"} {
		if !m.Files.FolderExists(parent) {
			continue
		}
		subfolders, err := m.Files.Subfolders(parent)
		if err != nil {
			return nil, err
		}
		for _, folder := range subfolders {
			name := strings.ToLower(filepath.Base(folder))
			for _, known := range environmentFolderNames {
				if name == known {
					folders = append(folders, folder)
					break
				}
			}
		}
	}
	return folders, nil
}

func (m *Migration) workflowOptions(cfg Config, deployment bool) (WorkflowOptions, error) {
	opts := WorkflowOptions{
		RepositoryName:         cfg.RepositoryName,
		ApplicationName:        cfg.ApplicationName,
		BuildTool:              cfg.BuildTool,
		RuntimeTarget:          cfg.RuntimeTarget,
		TerraformBaseFolder:    cfg.TerraformFolder,
		SkipServiceEnvironment: !m.HasServiceEnvironment(),
	}

	if cfg.RuntimeTarget == RuntimeTargetECS {
		if dockerfile, err := m.FindDockerfile(); err == nil {
			opts.DockerfilePath = dockerfile
		} else if !errors.Is(err, ErrNotFound) {
			return WorkflowOptions{}, err
		}
	}

	if cfg.BuildTool == BuildToolGradle {
		if gradleFolder, err := m.FindGradleFolder(); err == nil {
			opts.GradleFolderPath = gradleFolder
		} else if !errors.Is(err, ErrNotFound) {
			return WorkflowOptions{}, err
		}
	}

	if deployment {
		specPath, err := m.App.OpenAPISpecPath()
		if err != nil {
			return WorkflowOptions{}, err
		}
		opts.OpenAPISpecPath = specPath
	}

	roleName, err := m.AWSRoleName()
	if err != nil {
		return WorkflowOptions{}, err
	}
	opts.AWSRoleName = roleName

	return opts, nil
}

// GeneratePRWorkflows writes the pull-request and pull-request-comment
// workflows. They go out in stage one of the migration so PRs get checks
// before anything else changes.
func (m *Migration) GeneratePRWorkflows(cfg Config) error {
	opts, err := m.workflowOptions(cfg, false)
	if err != nil {
		return err
	}

	pullRequest, err := m.Workflows.PullRequestWorkflow(opts)
	if err != nil {
		return err
	}
	if err := m.Files.CreateFile(filepath.Join(".github", "workflows", "pull-request.yml"), pullRequest); err != nil {
		return err
	}

	comment, err := m.Workflows.PullRequestCommentWorkflow(opts)
	if err != nil {
		return err
	}
	return m.Files.CreateFile(filepath.Join(".github", "workflows", "pull-request-comment.yml"), comment)
}

// GenerateDeploymentWorkflow writes the build-and-deploy workflow. Stage
// two of the migration, after the PR workflows are on the main branch.
func (m *Migration) GenerateDeploymentWorkflow(cfg Config) error {
	opts, err := m.workflowOptions(cfg, true)
	if err != nil {
		return err
	}

	deployment, err := m.Workflows.DeploymentWorkflow(opts)
	if err != nil {
		return err
	}
	return m.Files.CreateFile(filepath.Join(".github", "workflows", "build-and-deploy.yml"), deployment)
}

// CreateAllWorkflows writes all three workflow files in one go.
func (m *Migration) CreateAllWorkflows(cfg Config) error {
	if err := m.GeneratePRWorkflows(cfg); err != nil {
		return err
	}
	return m.GenerateDeploymentWorkflow(cfg)
}

// UpgradeAWSRepoTerraformResources makes sure the central -aws repository
// has the GitHub OIDC module at the required version.
func (m *Migration) UpgradeAWSRepoTerraformResources(terraformFolder string) error {
	oidcModule, err := m.Registry.FindModule(terraform.GithubOIDCSource, terraformFolder)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	fileToModify := filepath.Join(terraformFolder, "main.tf")
	if oidcModule != nil {
		fileToModify = oidcModule.FilePath
	}

	config, err := m.Files.ReadFile(fileToModify)
	if err != nil {
		return err
	}

	if oidcModule != nil {
		config = m.Modules.UpdateVersions(config, map[string]string{
			terraform.GithubOIDCSource: githubOIDCVersion,
		})
	} else {
		environment := "var.environment"
		if strings.Contains(terraformFolder, "service") {
			environment = "service"
		}
		config, err = m.Modules.AddModule(config, "github_actions_oidc", terraform.GithubOIDCSource, githubOIDCVersion, map[string]any{
			"environment": environment,
		})
		if err != nil {
			return err
		}
	}

	return m.Files.OverwriteFile(fileToModify, config)
}

// UpgradeAWSRepoALBResources bumps the shared loadbalancer module in the
// -aws repository.
func (m *Migration) UpgradeAWSRepoALBResources(infrastructureFolder string) error {
	lbModule, err := m.Registry.FindModule(terraform.LoadbalancerSource, infrastructureFolder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return errors.Errorf(
				"you are not using the shared loadbalancer module; "+
					"migrate to https://github.com/nsbno/terraform-aws-loadbalancer manually: %w", err)
		}
		return err
	}

	config, err := m.Files.ReadFile(lbModule.FilePath)
	if err != nil {
		return err
	}

	config = m.Modules.UpdateVersions(config, map[string]string{
		terraform.LoadbalancerSource: loadbalancerVersion,
	})

	return m.Files.OverwriteFile(lbModule.FilePath, config)
}

// FindEnvironmentAWSProfiles maps each runtime environment present in the
// repository to a local AWS profile for its account, preferring
// AdministratorAccess profiles when the account has several.
func (m *Migration) FindEnvironmentAWSProfiles(ctx context.Context) (map[string]string, error) {
	accountIDs := map[string]string{}
	for _, environment := range []string{"dev", "test", "stage", "prod"} {
		folder, err := m.FindTerraformEnvironmentFolder(environment)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}

		accountID, err := m.Registry.AccountID(folder)
		if err != nil {
			return nil, err
		}
		accountIDs[environment] = accountID
	}

	profiles := map[string]string{}
	for environment, accountID := range accountIDs {
		names, err := m.AWS.ProfileNames(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, errors.Errorf("AWS profile for account %s: %w", accountID, ErrNotFound)
		}

		name := names[0]
		for _, candidate := range names {
			if strings.Contains(candidate, "AdministratorAccess") {
				name = candidate
				break
			}
		}
		profiles[environment] = name
	}

	return profiles, nil
}

// CreateVersionParameters seeds the deployed-version SSM parameter in
// each environment account so the new pipeline has a version to start
// from.
func (m *Migration) CreateVersionParameters(ctx context.Context, applicationName, version string) error {
	profiles, err := m.FindEnvironmentAWSProfiles(ctx)
	if err != nil {
		return err
	}

	name := "/__platform__/versions/" + applicationName
	for environment, profile := range profiles {
		if err := m.AWS.CreateParameter(ctx, profile, name, version); err != nil {
			return errors.Errorf("seeding version parameter in %s: %w", environment, err)
		}
	}
	return nil
}

// UpgradeAWSProviderVersions bumps the aws provider constraint in every
// folder that declares it. Folders without the provider are skipped.
func (m *Migration) UpgradeAWSProviderVersions(ctx context.Context, folders []string) error {
	return m.upgradeProviderVersions(ctx, folders, "aws", map[string]string{
		"aws": awsProviderConstraint,
	})
}

// UpgradeVyProviderVersions bumps the nsbno/vy provider constraint in
// every folder that declares it.
func (m *Migration) UpgradeVyProviderVersions(ctx context.Context, folders []string) error {
	return m.upgradeProviderVersions(ctx, folders, "vy", map[string]string{
		"nsbno/vy": vyProviderConstraint,
	})
}

func (m *Migration) upgradeProviderVersions(ctx context.Context, folders []string, providerName string, targets map[string]string) error {
	// Each environment folder owns its own files, so the rewrites are
	// independent and can run concurrently.
	group, ctx := errgroup.WithContext(ctx)
	for _, folder := range folders {
		folder := folder
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			provider, err := m.Registry.FindProvider(providerName, folder)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					zerolog.Ctx(ctx).Debug().
						Str("folder", folder).
						Str("provider", providerName).
						Msg("provider not declared, skipping folder")
					return nil
				}
				return err
			}

			config, err := m.Files.ReadFile(provider.FilePath)
			if err != nil {
				return err
			}
			config = m.Providers.UpdateVersions(config, targets)
			return m.Files.OverwriteFile(provider.FilePath, config)
		})
	}
	return group.Wait()
}

// ReplaceImageWithECRRepositoryURL swaps the artifact-service image
// reference on the ECS module for a direct ECR repository lookup.
func (m *Migration) ReplaceImageWithECRRepositoryURL(infrastructureFolder, repositoryName, serviceAccountID string) error {
	ecsModule, err := m.Registry.FindModule(terraform.ECSServiceSource, infrastructureFolder)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	filePath := filepath.Join(infrastructureFolder, "main.tf")
	if ecsModule != nil {
		filePath = ecsModule.FilePath
	}

	config, err := m.Files.ReadFile(filePath)
	if err != nil {
		return err
	}

	config = m.Modules.AddDataSource(config, "aws_ecr_repository", "this", map[string]string{
		"name":        repositoryName,
		"registry_id": serviceAccountID,
	})
	config = m.Services.RemoveArtifactReferences(config)
	config = m.Services.ReplaceImageTag(config, "this")

	return m.Files.OverwriteFile(filePath, config)
}

// UpgradeTerraformApplicationResources upgrades the service modules to the
// versions that work with the new pipeline, and applies the module-specific
// rewrites the upgrades require.
func (m *Migration) UpgradeTerraformApplicationResources(infrastructureFolder string) error {
	targetModules := map[string]string{
		terraform.ECSServiceSource:      ecsServiceVersion,
		terraform.LambdaSource:          lambdaVersion,
		terraform.SpringBootSource:      springBootVersion,
		terraform.AccountMetadataSource: accountMetadataVersion,
	}

	// Each module is updated in whichever file declares it.
	for source, version := range targetModules {
		module, err := m.Registry.FindModule(source, infrastructureFolder)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}

		config, err := m.Files.ReadFile(module.FilePath)
		if err != nil {
			return err
		}
		config = m.Modules.UpdateVersions(config, map[string]string{source: version})
		if err := m.Files.OverwriteFile(module.FilePath, config); err != nil {
			return err
		}
	}

	if err := m.upgradeECSServiceModule(infrastructureFolder); err != nil {
		return err
	}
	return m.upgradeSpringBootModule(infrastructureFolder)
}

func (m *Migration) upgradeECSServiceModule(infrastructureFolder string) error {
	ecsModule, err := m.Registry.FindModule(terraform.ECSServiceSource, infrastructureFolder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	// The ECS module needs the account-metadata module for the test
	// listener ARN. Add it to main.tf if the repository lacks it.
	metadataName := "metadata"
	metadataModule, err := m.Registry.FindModule(terraform.AccountMetadataSource, infrastructureFolder)
	switch {
	case err == nil:
		metadataName = metadataModule.Name
	case errors.Is(err, ErrNotFound):
		mainPath := filepath.Join(infrastructureFolder, "main.tf")
		mainConfig, err := m.Files.ReadFile(mainPath)
		if err != nil {
			return err
		}
		mainConfig, err = m.Modules.AddModule(mainConfig, metadataName, terraform.AccountMetadataSource, accountMetadataVersion, nil)
		if err != nil {
			return err
		}
		if err := m.Files.OverwriteFile(mainPath, mainConfig); err != nil {
			return err
		}
	default:
		return err
	}

	// Re-read the ECS file: the version-bump pass may have rewritten it.
	config, err := m.Files.ReadFile(ecsModule.FilePath)
	if err != nil {
		return err
	}
	config = m.Services.AddTestListener(config, metadataName)
	config, err = m.Services.AddForceNewDeployment(config)
	if err != nil {
		return err
	}
	return m.Files.OverwriteFile(ecsModule.FilePath, config)
}

func (m *Migration) upgradeSpringBootModule(infrastructureFolder string) error {
	springBootModule, err := m.Registry.FindModule(terraform.SpringBootSource, infrastructureFolder)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	config, err := m.Files.ReadFile(springBootModule.FilePath)
	if err != nil {
		return err
	}
	config = m.Services.UpdateSpringBootService(config, "this")
	return m.Files.OverwriteFile(springBootModule.FilePath, config)
}

// FindApplicationName resolves the application's name, first from the ECR
// repository resources in the Terraform config, then from the artifact
// names in the old deployment config.
func (m *Migration) FindApplicationName(terraformFolder string) (string, error) {
	names, err := m.Registry.Parameters("aws_ecr_repository", "name", terraformFolder)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		names, err = m.App.ArtifactNames()
		if err != nil {
			return "", err
		}
	}

	switch len(names) {
	case 0:
		return "", errors.Errorf("application name: %w", ErrNotFound)
	case 1:
		return names[0], nil
	default:
		return "", errors.Errorf("found %d application names, expected one", len(names))
	}
}

// FindBuildTool figures out which tool builds the application.
func (m *Migration) FindBuildTool() (BuildTool, error) {
	tool, err := m.App.FindBuildTool()
	if err != nil {
		return "", errors.Errorf("build tool: %w", ErrNotFound)
	}
	return tool, nil
}

// FindAWSRuntime determines whether the application runs on ECS or Lambda.
func (m *Migration) FindAWSRuntime(infrastructureFolder string) (RuntimeTarget, error) {
	hasECS, err := m.Registry.HasModule(terraform.ECSServiceSource, infrastructureFolder)
	if err != nil {
		return "", err
	}
	hasLambda, err := m.Registry.HasModule(terraform.LambdaSource, infrastructureFolder)
	if err != nil {
		return "", err
	}

	switch {
	case hasECS && hasLambda:
		return "", errors.New("repositories running both ECS and Lambda are not supported, update manually")
	case hasECS:
		return RuntimeTargetECS, nil
	case hasLambda:
		return RuntimeTargetLambda, nil
	default:
		return "", errors.Errorf("AWS runtime target: %w", ErrNotFound)
	}
}

// GithubEnvironmentSetup describes what the user needs to set up GitHub
// deployment environments for the repository.
type GithubEnvironmentSetup struct {
	// SettingsURL is the repository's new-environment settings page.
	SettingsURL string
	// RepoAddress is the origin in "github.com/org/repo" form.
	RepoAddress string
	// AccountIDs maps environment display names to AWS account IDs; the
	// value is "" when the account ID could not be determined.
	AccountIDs map[string]string
}

// HelpWithGithubEnvironmentSetup collects the account IDs and URLs needed
// to set up GitHub environments for the given environment folders.
func (m *Migration) HelpWithGithubEnvironmentSetup(ctx context.Context, environmentFolders []string) (*GithubEnvironmentSetup, error) {
	accountIDs := map[string]string{}
	for _, folder := range environmentFolders {
		name := filepath.Base(folder)
		if name == "prod" {
			name = "production"
		}
		name = strings.ToUpper(name[:1]) + name[1:]

		accountID, err := m.Registry.AccountID(folder)
		if err != nil {
			// The user is prompted for missing account IDs later.
			zerolog.Ctx(ctx).Debug().Err(err).Str("folder", folder).Msg("no account id found")
			accountID = ""
		}
		accountIDs[name] = accountID
	}

	repoAddress, err := m.VCS.OriginURL(ctx)
	if err != nil {
		return nil, err
	}

	return &GithubEnvironmentSetup{
		SettingsURL: "https://" + repoAddress + "/settings/environments/new",
		RepoAddress: repoAddress,
		AccountIDs:  accountIDs,
	}, nil
}

// RemoveOldDeploymentSetup deletes the old pipeline's files and replaces
// the CircleCI config with a no-op so the old pipeline stops running.
func (m *Migration) RemoveOldDeploymentSetup() error {
	if err := m.Files.DeleteFolder(".deployment", true); err != nil {
		return err
	}

	lockFiles, err := m.Files.FindFilesByPattern(".terraform.lock.hcl", ".")
	if err != nil {
		return err
	}
	for _, lockFile := range lockFiles {
		if err := m.Files.DeleteFile(lockFile, true); err != nil {
			return err
		}
	}

	circleCIConfig := filepath.Join(".circleci", "config.yml")
	if m.Files.FileExists(circleCIConfig) {
		return m.Files.OverwriteFile(circleCIConfig, circleCINoOpConfig)
	}
	return nil
}

// CommitAndPushChanges commits everything and pushes to origin.
func (m *Migration) CommitAndPushChanges(ctx context.Context, message string) error {
	if err := m.VCS.Commit(ctx, message); err != nil {
		return err
	}
	return m.VCS.Push(ctx)
}

// IsRepoInCleanState reports whether the repository has no uncommitted
// changes to tracked files.
func (m *Migration) IsRepoInCleanState(ctx context.Context) (bool, error) {
	return m.VCS.IsClean(ctx)
}

// ChangedFiles lists the files the migration has touched so far.
func (m *Migration) ChangedFiles(ctx context.Context) ([]string, error) {
	return m.VCS.ChangedFiles(ctx)
}

// IsAWSRepo reports whether the current folder is a central -aws
// repository rather than an application repository.
func (m *Migration) IsAWSRepo() (bool, error) {
	name, err := m.Files.CurrentFolderName()
	if err != nil {
		return false, err
	}
	return strings.HasSuffix(name, "-aws"), nil
}

// FindGradleFolder locates the single top-level folder holding a gradle
// wrapper.
func (m *Migration) FindGradleFolder() (string, error) {
	subfolders, err := m.Files.Subfolders(".")
	if err != nil {
		return "", err
	}

	var gradleFolders []string
	for _, folder := range subfolders {
		if m.Files.FileExists(filepath.Join(folder, "gradlew")) {
			gradleFolders = append(gradleFolders, folder)
		}
	}

	switch len(gradleFolders) {
	case 0:
		return "", errors.Errorf("gradle folder: %w", ErrNotFound)
	case 1:
		return gradleFolders[0], nil
	default:
		return "", errors.Errorf("found %d gradle folders, expected one", len(gradleFolders))
	}
}

// FindDockerfile locates the application's Dockerfile.
func (m *Migration) FindDockerfile() (string, error) {
	for _, location := range []string{"Dockerfile", "Docker/Dockerfile", "docker/Dockerfile"} {
		if m.Files.FileExists(location) {
			return location, nil
		}
	}
	return "", errors.Errorf("Dockerfile: %w", ErrNotFound)
}

// InitializeGithubEnvironments creates a GitHub deployment environment per
// account and sets its AWS_ACCOUNT_ID variable.
func (m *Migration) InitializeGithubEnvironments(ctx context.Context, accounts map[string]string, repoAddress string) error {
	repo := repoAddress
	if _, after, ok := strings.Cut(repoAddress, "github.com/"); ok {
		repo = after
	}

	for environment, accountID := range accounts {
		if err := m.Github.CreateEnvironment(ctx, repo, environment); err != nil {
			return errors.Errorf("creating GitHub environment %q: %w", environment, err)
		}
		if err := m.Github.AddEnvironmentVariable(ctx, repo, environment, "AWS_ACCOUNT_ID", accountID); err != nil {
			return errors.Errorf("adding AWS_ACCOUNT_ID to environment %q: %w", environment, err)
		}
	}
	return nil
}

// EnsureCacheInGitignore keeps the tool's cache file out of git status.
func (m *Migration) EnsureCacheInGitignore() error {
	const gitignore = ".gitignore"

	if !m.Files.FileExists(gitignore) {
		return m.Files.CreateFile(gitignore, CacheFileName+"\n")
	}

	content, err := m.Files.ReadFile(gitignore)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(content, "\n") {
		if line == CacheFileName {
			return nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return m.Files.OverwriteFile(gitignore, content+CacheFileName+"\n")
}
