// Package workflows renders the GitHub Actions workflow files for the new
// deployment pipeline. The jobs delegate to the reusable workflows in
// nsbno/platform-actions, so the files stay short and declarative.
package workflows

import (
	"bytes"
	"fmt"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// Author renders workflow YAML from migration.WorkflowOptions.
type Author struct{}

func NewAuthor() *Author {
	return &Author{}
}

func workflowRef(workflowType, name, version string) string {
	return fmt.Sprintf("nsbno/platform-actions/.github/workflows/%s.%s.yml@%s", workflowType, name, version)
}

// buildJobs returns the build, test and optionally package jobs, in order.
// Job order matters in the rendered file, so jobs travel as key/value
// pairs rather than a map.
func buildJobs(opts migration.WorkflowOptions, includePackage bool) ([]any, error) {
	var jobs []any

	switch opts.BuildTool {
	case migration.BuildToolGradle:
		build := []any{
			"uses", str(workflowRef("build", "gradle", "main")),
			"secrets", str("inherit"),
		}
		if opts.GradleFolderPath != "" {
			build = append(build, "with", obj(
				"gradle-directory", str(opts.GradleFolderPath),
			))
		}
		jobs = append(jobs,
			"build", obj(build...),
			"test", obj(
				"uses", str(workflowRef("test", "gradle", "main")),
				"secrets", str("inherit"),
			),
		)
	case migration.BuildToolPython:
		jobs = append(jobs, "build", obj(
			"uses", str(workflowRef("build", "python", "main")),
		))
	default:
		return nil, errors.Errorf("build tool %q is not supported", opts.BuildTool)
	}

	if !includePackage {
		return jobs, nil
	}

	needs := seq(str("build"))
	if opts.BuildTool == migration.BuildToolGradle {
		needs = seq(str("build"), str("test"))
	}

	switch opts.RuntimeTarget {
	case migration.RuntimeTargetECS:
		with := []any{
			"repo-name", str(opts.RepositoryName),
			"artifact-name", str("${{ needs.build.outputs.artifact-name }}"),
			"artifact-path", str("${{ needs.build.outputs.artifact-path }}"),
		}
		if opts.DockerfilePath != "" && opts.DockerfilePath != "Dockerfile" {
			with = append(with, "dockerfile", str(opts.DockerfilePath))
		}
		jobs = append(jobs, "package", obj(
			"uses", str(workflowRef("package", "docker", "main")),
			"needs", needs,
			"secrets", str("inherit"),
			"with", obj(with...),
		))
	case migration.RuntimeTargetLambda:
		jobs = append(jobs, "package", obj(
			"needs", needs,
			"uses", str(workflowRef("package", "s3", "main")),
			"secrets", str("inherit"),
			"with", obj(
				"repo-name", str(opts.RepositoryName),
				"artifact-name", str("${{ needs.build.outputs.artifact-name }}"),
				"artifact-path", str("${{ needs.build.outputs.artifact-path }}"),
				"directory-to-zip", str("${{ needs.build.outputs.artifact-path }}"),
			),
		))
	default:
		return nil, errors.Errorf("runtime target %q is not supported", opts.RuntimeTarget)
	}

	return jobs, nil
}

// deployOptions are the with-parameters shared by the plan and deploy
// reusable workflows.
func deployOptions(opts migration.WorkflowOptions) []any {
	var params []any
	if opts.SkipServiceEnvironment {
		params = append(params, "skip-service-environment", boolean(true))
	}
	if opts.AWSRoleName != "" {
		params = append(params, "aws-role-name", str(opts.AWSRoleName))
	}
	return params
}

// DeploymentWorkflow renders the workflow that builds, packages and
// deploys on every push to the default branch.
func (a *Author) DeploymentWorkflow(opts migration.WorkflowOptions) (string, error) {
	jobs := []any{
		"terraform-changes", obj(
			"uses", str(workflowRef("helpers.find-changes", "terraform", "main")),
			"secrets", str("inherit"),
		),
	}

	buildAndPackage, err := buildJobs(opts, true)
	if err != nil {
		return "", err
	}
	jobs = append(jobs, buildAndPackage...)

	if opts.OpenAPISpecPath != "" {
		jobs = append(jobs, "publish-api-docs", obj(
			"uses", str(workflowRef("documentation", "publish-openapi-spec", "main")),
			"needs", seq(str("build")),
			"secrets", str("inherit"),
			"with", obj(
				"openapi-path", str(opts.OpenAPISpecPath),
			),
		))
	}

	// The deploy job waits for everything above it.
	needs := seq()
	for i := 0; i < len(jobs); i += 2 {
		needs.Content = append(needs.Content, str(jobs[i].(string)))
	}

	deployWith := append([]any{
		"applications", str(opts.ApplicationName),
		"terraform-changes", str("${{ needs.terraform-changes.outputs.has-changes }}"),
	}, deployOptions(opts)...)

	jobs = append(jobs, "deploy", obj(
		"needs", needs,
		"uses", str(workflowRef("deployment", "all-environments", "main")),
		"secrets", str("inherit"),
		"if", str("!cancelled() && !contains(needs.*.results, 'failure') && success()"),
		"with", obj(deployWith...),
	))

	workflow := obj(
		"name", str("🚀 Deployment 🚀"),
		"on", obj(
			"push", obj(
				"branches", seq(str("master"), str("main")),
			),
		),
		"jobs", obj(jobs...),
	)

	return render(workflow)
}

// PullRequestWorkflow renders the workflow that builds and plans on every
// pull request.
func (a *Author) PullRequestWorkflow(opts migration.WorkflowOptions) (string, error) {
	jobs, err := buildJobs(opts, false)
	if err != nil {
		return "", err
	}

	planWith := deployOptions(opts)
	plan := []any{
		"uses", str(workflowRef("helpers", "terraform-plan", "main")),
		"secrets", str("inherit"),
	}
	if len(planWith) > 0 {
		plan = append(plan, "with", obj(planWith...))
	}
	jobs = append(jobs, "terraform-plan", obj(plan...))

	workflow := obj(
		"name", str("🔨 Pull Request 🔨"),
		"on", seq(str("pull_request")),
		"jobs", obj(jobs...),
	)

	return render(workflow)
}

// PullRequestCommentWorkflow renders the workflow that reacts to commands
// in pull request comments.
func (a *Author) PullRequestCommentWorkflow(opts migration.WorkflowOptions) (string, error) {
	commentWith := deployOptions(opts)
	comment := []any{
		"uses", str(workflowRef("helpers", "pull-request-comment", "main")),
		"secrets", str("inherit"),
	}
	if len(commentWith) > 0 {
		comment = append(comment, "with", obj(commentWith...))
	}

	workflow := obj(
		"name", str("💬 Pull Request Comment 💬"),
		"on", obj(
			"issue_comment", obj(
				"types", seq(str("created")),
			),
		),
		"jobs", obj(
			"pull-request-comment", obj(comment...),
		),
	)

	return render(workflow)
}

func render(workflow *yaml.Node) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(workflow); err != nil {
		return "", errors.Errorf("encoding workflow: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", errors.Errorf("encoding workflow: %w", err)
	}
	return buf.String(), nil
}

// The yaml.v3 node helpers keep map keys in insertion order, which plain
// maps would not.

func str(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func boolean(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", value)}
}

func seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

// obj builds a mapping node from alternating string keys and *yaml.Node
// values.
func obj(pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i < len(pairs); i += 2 {
		node.Content = append(node.Content,
			str(pairs[i].(string)),
			pairs[i+1].(*yaml.Node),
		)
	}
	return node
}
