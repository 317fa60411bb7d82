package migration

import (
	"context"

	"github.com/nsbno/vydev-migrate/pkg/terraform"
)

// FileHandler abstracts the local filesystem.
type FileHandler interface {
	CreateFile(path, content string) error
	ReadFile(path string) (string, error)
	OverwriteFile(path, content string) error
	FileExists(path string) bool
	FolderExists(path string) bool
	Subfolders(path string) ([]string, error)
	DeleteFolder(path string, notFoundOK bool) error
	DeleteFile(path string, notFoundOK bool) error
	FindFilesByPattern(pattern, root string) ([]string, error)
	CurrentFolderName() (string, error)
}

// VersionControl abstracts the git repository the tool runs inside.
type VersionControl interface {
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
	OriginURL(ctx context.Context) (string, error)
	IsClean(ctx context.Context) (bool, error)
	ChangedFiles(ctx context.Context) ([]string, error)
}

// ModuleRegistry answers read-only questions about the Terraform
// configuration under a folder.
type ModuleRegistry interface {
	FindModule(source, root string) (*terraform.Module, error)
	HasModule(source, root string) (bool, error)
	FindProvider(name, root string) (*terraform.Provider, error)
	Parameters(blockType, attribute, root string) ([]string, error)
	AccountID(root string) (string, error)
}

// ModuleEditor rewrites module blocks in Terraform configuration text.
type ModuleEditor interface {
	UpdateVersions(config string, targets map[string]string) string
	AddModule(config, name, source, version string, variables map[string]any) (string, error)
	AddVariables(config, moduleName string, variables map[string]any) (string, error)
	AddDataSource(config, resourceType, name string, attributes map[string]string) string
}

// ProviderEditor rewrites required_providers entries.
type ProviderEditor interface {
	UpdateVersions(config string, targets map[string]string) string
}

// ServiceEditor performs the service-module specific rewrites.
type ServiceEditor interface {
	AddTestListener(config, metadataModuleName string) string
	AddForceNewDeployment(config string) (string, error)
	ReplaceImageTag(config, dataSourceName string) string
	RemoveArtifactReferences(config string) string
	UpdateSpringBootService(config, dataSourceName string) string
}

// WorkflowAuthor renders GitHub Actions workflow files.
type WorkflowAuthor interface {
	DeploymentWorkflow(opts WorkflowOptions) (string, error)
	PullRequestWorkflow(opts WorkflowOptions) (string, error)
	PullRequestCommentWorkflow(opts WorkflowOptions) (string, error)
}

// GithubAPI manages deployment environments on the GitHub repository.
type GithubAPI interface {
	CreateEnvironment(ctx context.Context, repository, environment string) error
	AddEnvironmentVariable(ctx context.Context, repository, environment, name, value string) error
}

// AWS talks to the AWS accounts the application deploys to.
type AWS interface {
	// ProfileNames returns the local profile names configured for the
	// account, most privileged first.
	ProfileNames(ctx context.Context, accountID string) ([]string, error)
	CreateParameter(ctx context.Context, profile, name, value string) error
}

// AppContext inspects the non-Terraform parts of the repository.
type AppContext interface {
	FindBuildTool() (BuildTool, error)
	ArtifactNames() ([]string, error)
	// OpenAPISpecPath returns "" when the repository publishes no spec.
	OpenAPISpecPath() (string, error)
}

// ConfigCache persists Config between tool invocations.
type ConfigCache interface {
	Save(cfg Config) error
	// Load returns nil when no cached config exists.
	Load() (*Config, error)
	Clear() error
}
