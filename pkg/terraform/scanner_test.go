package terraform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root string, relPath string, content string) string {
	t.Helper()
	path := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanner_FindModule(t *testing.T) {
	scanner := NewScanner()

	t.Run("returns_module_details", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root, "main.tf", `
module "example_module" {
  source = "https://github.com/example/module?ref=1.0.0"
  var1   = "value1"
  var2   = 42
  var3   = true
}
`)

		module, err := scanner.FindModule("https://github.com/example/module", root)
		require.NoError(t, err)

		assert.Equal(t, "example_module", module.Name)
		assert.Equal(t, "https://github.com/example/module?ref=1.0.0", module.Source)
		assert.Equal(t, "1.0.0", module.Version)
		assert.Equal(t, "value1", module.Variables["var1"])
		assert.Equal(t, "42", module.Variables["var2"])
		assert.Equal(t, "true", module.Variables["var3"])
		assert.Equal(t, path, module.FilePath)
	})

	t.Run("version_absent_without_ref", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "main.tf", `
module "example" {
  source = "https://github.com/example/module"
}
`)

		module, err := scanner.FindModule("https://github.com/example/module", root)
		require.NoError(t, err)
		assert.Empty(t, module.Version)
	})

	t.Run("not_found_when_absent_everywhere", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "main.tf", `
module "example" {
  source = "https://github.com/example/other-module"
}
`)

		_, err := scanner.FindModule("https://github.com/example/module", root)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nested_array_variables_are_skipped", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "main.tf", `
module "ecs" {
  source = "github.com/nsbno/terraform-aws-ecs-service?ref=2.0.0"
  name   = "my-service"

  lb_listeners = [{
    listener_arn = "arn"
  }]
}
`)

		module, err := scanner.FindModule(ECSServiceSource, root)
		require.NoError(t, err)

		assert.Equal(t, "my-service", module.Variables["name"])
		assert.NotContains(t, module.Variables, "lb_listeners")
		assert.NotContains(t, module.Variables, "listener_arn")
	})

	t.Run("first_file_in_lexical_order_wins", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "b.tf", `
module "second" {
  source = "github.com/example/module"
}
`)
		writeConfig(t, root, "a.tf", `
module "first" {
  source = "github.com/example/module"
}
`)

		module, err := scanner.FindModule("github.com/example/module", root)
		require.NoError(t, err)
		assert.Equal(t, "first", module.Name)
	})
}

func TestScanner_HasModule(t *testing.T) {
	scanner := NewScanner()

	ecsModule := `
module "ecs_service" {
  source = "github.com/nsbno/terraform-aws-ecs-service?ref=2.0.0"
  name = "my-service"
}
`

	tests := []struct {
		name   string
		layout map[string]string
		source string
		want   bool
	}{
		{
			name:   "module_in_main_tf",
			layout: map[string]string{"template/main.tf": ecsModule},
			source: ECSServiceSource,
			want:   true,
		},
		{
			name: "module_in_separate_file",
			layout: map[string]string{
				"template/main.tf":    `resource "aws_s3_bucket" "example" {}`,
				"template/service.tf": ecsModule,
			},
			source: ECSServiceSource,
			want:   true,
		},
		{
			name:   "module_in_subdirectory",
			layout: map[string]string{"template/modules/ecs.tf": ecsModule},
			source: ECSServiceSource,
			want:   true,
		},
		{
			name:   "module_in_service_folder",
			layout: map[string]string{"service/main.tf": ecsModule},
			source: ECSServiceSource,
			want:   true,
		},
		{
			name:   "matches_with_versioned_needle",
			layout: map[string]string{"main.tf": ecsModule},
			source: ECSServiceSource + "?ref=9.9.9",
			want:   true,
		},
		{
			name:   "false_when_absent",
			layout: map[string]string{"main.tf": ecsModule},
			source: "github.com/example/module",
			want:   false,
		},
		{
			name:   "terraform_cache_dirs_are_skipped",
			layout: map[string]string{".terraform/modules/ecs/main.tf": ecsModule},
			source: ECSServiceSource,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for path, content := range tt.layout {
				writeConfig(t, root, path, content)
			}

			got, err := scanner.HasModule(tt.source, root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanner_FindProvider(t *testing.T) {
	scanner := NewScanner()

	t.Run("finds_provider_entry", func(t *testing.T) {
		root := t.TempDir()
		path := writeConfig(t, root, "versions.tf", `
terraform {
  required_providers {
    aws = {
      source  = "hashicorp/aws"
      version = "~> 4.0.0"
    }
  }
}
`)

		provider, err := scanner.FindProvider("aws", root)
		require.NoError(t, err)

		assert.Equal(t, "aws", provider.Name)
		assert.Equal(t, "~> 4.0.0", provider.Version)
		assert.Equal(t, "hashicorp/aws", provider.Source)
		assert.Equal(t, path, provider.FilePath)
	})

	t.Run("not_found_when_absent", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "main.tf", `provider "aws" {}`)

		_, err := scanner.FindProvider("vy", root)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScanner_Parameters(t *testing.T) {
	scanner := NewScanner()

	t.Run("collects_values_in_file_order", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "a.tf", `
resource "aws_ecr_repository" "one" {
  name = "repo-one"
}
`)
		writeConfig(t, root, "b.tf", `
data "aws_ecr_repository" "two" {
  name = "repo-two"
}
`)

		values, err := scanner.Parameters("aws_ecr_repository", "name", root)
		require.NoError(t, err)
		assert.Equal(t, []string{"repo-one", "repo-two"}, values)
	})

	t.Run("empty_result_is_not_found", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "main.tf", `resource "aws_s3_bucket" "b" {}`)

		_, err := scanner.Parameters("aws_ecr_repository", "name", root)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestScanner_AccountID(t *testing.T) {
	scanner := NewScanner()

	t.Run("extracts_leading_digit_run", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "backend.tf", `
terraform {
  backend "s3" {
    bucket = "123456789012-mybucket"
    key    = "terraform.tfstate"
  }
}
`)

		id, err := scanner.AccountID(root)
		require.NoError(t, err)
		assert.Equal(t, "123456789012", id)
	})

	t.Run("not_found_without_convention", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "backend.tf", `
terraform {
  backend "s3" {
    bucket = "mybucket"
  }
}
`)

		_, err := scanner.AccountID(root)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
