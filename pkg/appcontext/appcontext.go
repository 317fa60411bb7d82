// Package appcontext inspects the non-Terraform parts of the repository:
// build files, the old deployment config and the CircleCI pipeline.
package appcontext

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

// Finder answers questions about the application by reading well-known
// files in the working directory.
type Finder struct{}

func NewFinder() *Finder {
	return &Finder{}
}

var gradleFiles = []string{
	"build.gradle",
	"settings.gradle",
	"gradlew",
	"gradle.properties",
}

// FindBuildTool determines the build tool from the files in the
// repository root.
func (f *Finder) FindBuildTool() (migration.BuildTool, error) {
	for _, file := range gradleFiles {
		if fileExists(file) {
			return migration.BuildToolGradle, nil
		}
	}
	if fileExists("pyproject.toml") {
		return migration.BuildToolPython, nil
	}
	return "", errors.Errorf("no gradle files or pyproject.toml found: %w", migration.ErrNotFound)
}

type deploymentConfig struct {
	Artifacts []struct {
		Name string `yaml:"name"`
	} `yaml:"artifacts"`
}

// ArtifactNames reads the application artifact names from the old
// deployment config. Infrastructure artifacts (-infra, -tf) are filtered
// out since they are not applications.
func (f *Finder) ArtifactNames() ([]string, error) {
	var configFile string
	for _, candidate := range []string{".deployment/config.yml", ".deployment/config.yaml"} {
		if fileExists(candidate) {
			configFile = candidate
			break
		}
	}
	if configFile == "" {
		return nil, errors.Errorf(".deployment/config.yml: %w", migration.ErrNotFound)
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Errorf("reading %q: %w", configFile, err)
	}

	var config deploymentConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Errorf("parsing %q: %w", configFile, err)
	}
	if len(config.Artifacts) == 0 {
		return nil, errors.Errorf("no artifacts in %q: %w", configFile, migration.ErrNotFound)
	}

	var names []string
	for _, artifact := range config.Artifacts {
		if artifact.Name == "" {
			continue
		}
		if strings.HasSuffix(artifact.Name, "-infra") || strings.HasSuffix(artifact.Name, "-tf") {
			continue
		}
		names = append(names, artifact.Name)
	}
	return names, nil
}

const pushAPISpecJob = "documentation/push-api-spec"

// OpenAPISpecPath finds the OpenAPI spec the CircleCI pipeline publishes,
// or "" when the pipeline publishes none.
func (f *Finder) OpenAPISpecPath() (string, error) {
	data, err := os.ReadFile(".circleci/config.yml")
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Errorf("reading .circleci/config.yml: %w", err)
	}

	var config struct {
		Workflows map[string]yaml.Node `yaml:"workflows"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return "", errors.Errorf("parsing .circleci/config.yml: %w", err)
	}

	for _, workflow := range config.Workflows {
		// The workflows map also holds the "version" scalar, skip it.
		if workflow.Kind != yaml.MappingNode {
			continue
		}

		var workflowBody struct {
			Jobs []yaml.Node `yaml:"jobs"`
		}
		if err := workflow.Decode(&workflowBody); err != nil {
			continue
		}

		for _, jobNode := range workflowBody.Jobs {
			// Job entries are either bare names or single-key maps with
			// job parameters.
			if jobNode.Kind != yaml.MappingNode {
				continue
			}

			var job map[string]struct {
				OpenAPIPath string `yaml:"openapi-path"`
			}
			if err := jobNode.Decode(&job); err != nil {
				continue
			}
			if spec, ok := job[pushAPISpecJob]; ok {
				return spec.OpenAPIPath, nil
			}
		}
	}
	return "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
