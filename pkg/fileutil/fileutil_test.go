package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_CreateFile(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	path := filepath.Join(root, ".github", "workflows", "deploy.yml")
	require.NoError(t, handler.CreateFile(path, "name: deploy\n"))

	content, err := handler.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: deploy\n", content)
}

func TestHandler_OverwriteFile(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	path := filepath.Join(root, "main.tf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, handler.OverwriteFile(path, "new"))

	content, err := handler.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", content)
}

func TestHandler_Exists(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))
	folder := filepath.Join(root, "folder")
	require.NoError(t, os.Mkdir(folder, 0o755))

	assert.True(t, handler.FileExists(file))
	assert.False(t, handler.FileExists(folder))
	assert.True(t, handler.FolderExists(folder))
	assert.False(t, handler.FolderExists(file))
	assert.False(t, handler.FolderExists(filepath.Join(root, "missing")))
}

func TestHandler_Subfolders(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(root, "test"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "prod"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.tf"), []byte(""), 0o644))

	folders, err := handler.Subfolders(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "test"),
		filepath.Join(root, "prod"),
	}, folders)
}

func TestHandler_DeleteFolder(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	folder := filepath.Join(root, ".deployment")
	require.NoError(t, os.Mkdir(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "config.yml"), []byte(""), 0o644))

	require.NoError(t, handler.DeleteFolder(folder, false))
	assert.False(t, handler.FolderExists(folder))

	t.Run("missing_folder_ok_when_allowed", func(t *testing.T) {
		assert.NoError(t, handler.DeleteFolder(filepath.Join(root, "missing"), true))
	})

	t.Run("missing_folder_fails_otherwise", func(t *testing.T) {
		assert.Error(t, handler.DeleteFolder(filepath.Join(root, "missing"), false))
	})
}

func TestHandler_DeleteFile(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	file := filepath.Join(root, ".terraform.lock.hcl")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	require.NoError(t, handler.DeleteFile(file, false))
	assert.NoError(t, handler.DeleteFile(file, true))
	assert.Error(t, handler.DeleteFile(file, false))
}

func TestHandler_FindFilesByPattern(t *testing.T) {
	handler := NewHandler()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "terraform", "test"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".terraform.lock.hcl"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "terraform", "test", ".terraform.lock.hcl"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "terraform", "main.tf"), []byte(""), 0o644))

	files, err := handler.FindFilesByPattern(".terraform.lock.hcl", root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, ".terraform.lock.hcl"),
		filepath.Join(root, "terraform", "test", ".terraform.lock.hcl"),
	}, files)
}
