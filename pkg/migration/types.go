package migration

import (
	"time"
)

// BuildTool is the tool used to build the application.
type BuildTool string

const (
	BuildToolGradle BuildTool = "gradle"
	BuildToolPython BuildTool = "python"
)

// RuntimeTarget is where the application runs in AWS.
type RuntimeTarget string

const (
	RuntimeTargetECS    RuntimeTarget = "ecs"
	RuntimeTargetLambda RuntimeTarget = "lambda"
)

// Config holds the answers collected by `vydev prepare`, cached between the
// two stages of the migration so the user is not asked twice.
type Config struct {
	TerraformFolder string        `json:"terraform_folder"`
	RepositoryName  string        `json:"repository_name"`
	ApplicationName string        `json:"application_name"`
	BuildTool       BuildTool     `json:"build_tool"`
	RuntimeTarget   RuntimeTarget `json:"runtime_target"`
	Timestamp       time.Time     `json:"timestamp"`
}

// WorkflowOptions parameterizes GitHub Actions workflow generation.
type WorkflowOptions struct {
	RepositoryName         string
	ApplicationName        string
	BuildTool              BuildTool
	RuntimeTarget          RuntimeTarget
	TerraformBaseFolder    string
	DockerfilePath         string
	GradleFolderPath       string
	OpenAPISpecPath        string
	SkipServiceEnvironment bool
	// AWSRoleName overrides the default GitHub Actions role for teams whose
	// AWS accounts predate the shared setup.
	AWSRoleName string
}

// Teams that require a custom AWS role name for GitHub Actions. These
// accounts were set up before the shared OIDC role naming existed.
var customAWSRolePrefixes = []string{
	"alternativ-transport", // single 'v', not "alternative"
	"drifts-informasjon",
	"trafficcontrol",
}
