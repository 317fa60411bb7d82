package terraform

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Module sources and data source types the transforms below know about.
const (
	ECSServiceSource      = "github.com/nsbno/terraform-aws-ecs-service"
	LambdaSource          = "github.com/nsbno/terraform-aws-lambda"
	SpringBootSource      = "github.com/nsbno/terraform-digitalekanaler-modules//spring-boot-service"
	AccountMetadataSource = "github.com/nsbno/terraform-aws-account-metadata"
	LoadbalancerSource    = "github.com/nsbno/terraform-aws-loadbalancer"
	GithubOIDCSource      = "github.com/nsbno/terraform-aws-github-oidc"

	artifactVersionDataSource = "vydev_artifact_version"
)

// ServiceEditor applies the vendor-specific edits needed when moving a
// service from the legacy pipeline to the new deployment modules. Each method
// performs exactly one structural change against a known module convention.
type ServiceEditor struct{}

func NewServiceEditor() *ServiceEditor {
	return &ServiceEditor{}
}

var lbListenersRe = regexp.MustCompile(`(?m)^([ \t]*)lb_listeners[ \t]*=[ \t]*\[`)

// AddTestListener inserts a test_listener_arn attribute referencing the
// account metadata module as the first attribute of the first object in the
// ECS module's lb_listeners array. The edit is opportunistic: when the module
// or the array is absent, or the module already carries a test_listener_arn
// anywhere, the configuration is returned unchanged.
func (e *ServiceEditor) AddTestListener(config, metadataModuleName string) string {
	blk, ok := findModuleBySource(config, ECSServiceSource)
	if !ok {
		return config
	}

	body := blk.body(config)
	if strings.Contains(body, "test_listener_arn") {
		return config
	}

	loc := lbListenersRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return config
	}
	indent := body[loc[2]:loc[3]]

	// First object of the array. Anything other than an object literal is a
	// layout this transform does not understand, so leave the text alone.
	rest := body[loc[1]:]
	obj := strings.IndexFunc(rest, func(r rune) bool { return !isSpace(r) })
	if obj < 0 || rest[obj] != '{' {
		return config
	}

	at := blk.open + 1 + loc[1] + obj + 1
	insertion := fmt.Sprintf(
		"\n%s  test_listener_arn = module.%s.load_balancer.https_test_listener_arn",
		indent, metadataModuleName,
	)
	return config[:at] + insertion + config[at:]
}

// AddForceNewDeployment adds force_new_deployment = true at the top level of
// the ECS module, directly above its closing brace. The locator guarantees
// the insertion lands at the module's own attribute level and never inside a
// nested object such as datadog_options. The caller invokes this only after
// confirming an ECS module exists, so a missing module is a hard failure.
func (e *ServiceEditor) AddForceNewDeployment(config string) (string, error) {
	blk, ok := findModuleBySource(config, ECSServiceSource)
	if !ok {
		return "", errors.Errorf("no ECS module was found: %w", ErrNotFound)
	}

	at := lineStart(config, blk.end)
	insertion := blk.indent + "  force_new_deployment = true\n"
	return config[:at] + insertion + config[at:], nil
}

var imageAttrRe = regexp.MustCompile(`(?m)^([ \t]*)image[ \t]*=[^\n]*$`)

// ReplaceImageTag replaces the ECS module's image attribute with a
// repository_url reference to the named aws_ecr_repository data source.
// No-op when the module or the attribute is absent.
func (e *ServiceEditor) ReplaceImageTag(config, dataSourceName string) string {
	blk, ok := findModuleBySource(config, ECSServiceSource)
	if !ok {
		return config
	}

	body := blk.body(config)
	loc := imageAttrRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return config
	}

	indent := body[loc[2]:loc[3]]
	replacement := fmt.Sprintf("%srepository_url = data.aws_ecr_repository.%s.repository_url", indent, dataSourceName)

	start := blk.open + 1 + loc[0]
	end := blk.open + 1 + loc[1]
	return config[:start] + replacement + config[end:]
}

var artifactDataRe = regexp.MustCompile(`(?m)^[ \t]*data[ \t]+"` + artifactVersionDataSource + `"[ \t]+"[^"]+"[ \t]*\{`)

// RemoveArtifactReferences deletes every data block of the legacy
// vydev_artifact_version type. Block bounds come from the locator, so
// interpolation braces inside attribute values do not cut a block short.
func (e *ServiceEditor) RemoveArtifactReferences(config string) string {
	for {
		loc := artifactDataRe.FindStringIndex(config)
		if loc == nil {
			return config
		}
		open := loc[1] - 1
		end := closingDelimiter(config, open)
		if end < 0 {
			return config
		}
		config = config[:loc[0]] + config[end+1:]
	}
}

var (
	dockerImageAttrRe = regexp.MustCompile(`(?m)^[ \t]*docker_image[ \t]*=[^\n]*\n`)
	datadogTagsRe     = regexp.MustCompile(`(?m)^[ \t]*datadog_tags[ \t]*=[ \t]*\{`)
)

// UpdateSpringBootService reworks the first spring-boot-service module for
// the new pipeline: the docker_image attribute and the datadog_tags object
// are removed, and a repository_url attribute referencing the named
// aws_ecr_repository data source is appended unless one is already present.
// No-op when no spring-boot-service module exists.
func (e *ServiceEditor) UpdateSpringBootService(config, dataSourceName string) string {
	blk, ok := findModuleBySource(config, SpringBootSource)
	if !ok {
		return config
	}

	body := blk.body(config)

	if loc := dockerImageAttrRe.FindStringIndex(body); loc != nil {
		config = config[:blk.open+1+loc[0]] + config[blk.open+1+loc[1]:]
		blk, _ = findModuleBySource(config, SpringBootSource)
		body = blk.body(config)
	}

	if loc := datadogTagsRe.FindStringIndex(body); loc != nil {
		open := blk.open + 1 + loc[1] - 1
		end := closingDelimiter(config, open)
		if end >= 0 {
			cut := end + 1
			if cut < len(config) && config[cut] == '\n' {
				cut++
			}
			config = config[:blk.open+1+loc[0]] + config[cut:]
			blk, _ = findModuleBySource(config, SpringBootSource)
			body = blk.body(config)
		}
	}

	if !strings.Contains(body, "repository_url") {
		at := lineStart(config, blk.end)
		insertion := fmt.Sprintf("%s  repository_url = data.aws_ecr_repository.%s.repository_url\n", blk.indent, dataSourceName)
		config = config[:at] + insertion + config[at:]
	}

	return config
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
