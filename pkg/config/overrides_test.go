package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

func writeOverrideFile(t *testing.T, name, content string) string {
	t.Helper()

	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(content), 0o644))
	return folder
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "hcl",
			file: ".vydev.hcl",
			content: `terraform_folder = "terraform/template"
build_tool       = "gradle"
runtime_target   = "ecs"
`,
		},
		{
			name: "yaml",
			file: ".vydev.yaml",
			content: `terraform_folder: terraform/template
build_tool: gradle
runtime_target: ecs
`,
		},
		{
			name: "json",
			file: ".vydev.json",
			content: `{
  "terraform_folder": "terraform/template",
  "build_tool": "gradle",
  "runtime_target": "ecs"
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder := writeOverrideFile(t, tt.file, tt.content)

			overrides, err := Load(filepath.Join(folder, tt.file))
			require.NoError(t, err)

			assert.Equal(t, "terraform/template", overrides.TerraformFolder)
			assert.Equal(t, "gradle", overrides.BuildTool)
			assert.Equal(t, "ecs", overrides.RuntimeTarget)
			assert.Equal(t, filepath.Join(folder, tt.file), overrides.Location())
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	folder := writeOverrideFile(t, ".vydev.yaml", "build_tool: maven\n")

	_, err := Load(filepath.Join(folder, ".vydev.yaml"))
	assert.ErrorContains(t, err, `unknown build_tool "maven"`)
}

func TestLoad_UnknownField(t *testing.T) {
	folder := writeOverrideFile(t, ".vydev.yaml", "no_such_option: true\n")

	_, err := Load(filepath.Join(folder, ".vydev.yaml"))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	t.Run("finds_first_override_file", func(t *testing.T) {
		folder := writeOverrideFile(t, ".vydev.yaml", "application_name: my-service\n")

		overrides, err := Discover(folder)
		require.NoError(t, err)
		require.NotNil(t, overrides)
		assert.Equal(t, "my-service", overrides.ApplicationName)
	})

	t.Run("no_override_file", func(t *testing.T) {
		overrides, err := Discover(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, overrides)
	})
}

func TestOverrides_Apply(t *testing.T) {
	cfg := migration.Config{
		TerraformFolder: "infrastructure",
		ApplicationName: "detected-name",
		BuildTool:       migration.BuildToolPython,
		RuntimeTarget:   migration.RuntimeTargetLambda,
	}

	overrides := &Overrides{
		ApplicationName: "real-name",
		BuildTool:       "gradle",
	}
	overrides.Apply(&cfg)

	assert.Equal(t, "infrastructure", cfg.TerraformFolder)
	assert.Equal(t, "real-name", cfg.ApplicationName)
	assert.Equal(t, migration.BuildToolGradle, cfg.BuildTool)
	assert.Equal(t, migration.RuntimeTargetLambda, cfg.RuntimeTarget)
}
