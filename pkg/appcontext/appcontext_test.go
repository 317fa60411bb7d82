package appcontext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsbno/vydev-migrate/pkg/migration"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFinder_FindBuildTool(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		want    migration.BuildTool
		wantErr bool
	}{
		{
			name:  "gradle_wrapper",
			files: []string{"gradlew"},
			want:  migration.BuildToolGradle,
		},
		{
			name:  "gradle_build_file",
			files: []string{"build.gradle"},
			want:  migration.BuildToolGradle,
		},
		{
			name:  "python_project",
			files: []string{"pyproject.toml"},
			want:  migration.BuildToolPython,
		},
		{
			name:  "gradle_wins_over_python",
			files: []string{"pyproject.toml", "settings.gradle"},
			want:  migration.BuildToolGradle,
		},
		{
			name:    "nothing_found",
			files:   []string{"package.json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for _, file := range tt.files {
				writeFile(t, file, "")
			}

			tool, err := NewFinder().FindBuildTool()
			if tt.wantErr {
				assert.ErrorIs(t, err, migration.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tool)
		})
	}
}

func TestFinder_ArtifactNames(t *testing.T) {
	t.Run("filters_infrastructure_artifacts", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, ".deployment/config.yml", `artifacts:
  - name: my-service
    type: docker
  - name: my-service-infra
    type: terraform
  - name: my-service-tf
    type: terraform
`)

		names, err := NewFinder().ArtifactNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"my-service"}, names)
	})

	t.Run("accepts_yaml_extension", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, ".deployment/config.yaml", "artifacts:\n  - name: my-service\n")

		names, err := NewFinder().ArtifactNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"my-service"}, names)
	})

	t.Run("missing_config_file", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := NewFinder().ArtifactNames()
		assert.ErrorIs(t, err, migration.ErrNotFound)
	})

	t.Run("no_artifacts_section", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, ".deployment/config.yml", "something_else: true\n")

		_, err := NewFinder().ArtifactNames()
		assert.ErrorIs(t, err, migration.ErrNotFound)
	})
}

func TestFinder_OpenAPISpecPath(t *testing.T) {
	t.Run("finds_push_api_spec_job", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, ".circleci/config.yml", `version: 2.1

workflows:
  version: 2
  build_and_deploy:
    jobs:
      - build
      - documentation/push-api-spec:
          openapi-path: docs/openapi.yml
          requires:
            - build
`)

		path, err := NewFinder().OpenAPISpecPath()
		require.NoError(t, err)
		assert.Equal(t, "docs/openapi.yml", path)
	})

	t.Run("no_circleci_config", func(t *testing.T) {
		chdir(t, t.TempDir())

		path, err := NewFinder().OpenAPISpecPath()
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("no_spec_job", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, ".circleci/config.yml", `version: 2.1

workflows:
  build:
    jobs:
      - build
      - deploy:
          requires:
            - build
`)

		path, err := NewFinder().OpenAPISpecPath()
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}
