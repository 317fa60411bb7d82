// Package fileutil is the filesystem adapter for the migration tool: plain
// file and folder operations plus recursive pattern search.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Handler performs local filesystem operations.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// CreateFile writes content to path, creating parent directories as needed.
func (h *Handler) CreateFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Errorf("creating directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Errorf("writing %q: %w", path, err)
	}
	return nil
}

func (h *Handler) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %q: %w", path, err)
	}
	return string(data), nil
}

// OverwriteFile replaces the content of an existing file. Unlike CreateFile
// it does not create parent directories: the file is expected to exist.
func (h *Handler) OverwriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Errorf("overwriting %q: %w", path, err)
	}
	return nil
}

func (h *Handler) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (h *Handler) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Subfolders returns the immediate subdirectories of path.
func (h *Handler) Subfolders(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Errorf("listing %q: %w", path, err)
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, filepath.Join(path, entry.Name()))
		}
	}
	return folders, nil
}

// DeleteFolder removes a folder and everything below it.
func (h *Handler) DeleteFolder(path string, notFoundOK bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if notFoundOK {
			return nil
		}
		return errors.Errorf("folder %q does not exist", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Errorf("deleting folder %q: %w", path, err)
	}
	return nil
}

func (h *Handler) DeleteFile(path string, notFoundOK bool) error {
	err := os.Remove(path)
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) && notFoundOK {
		return nil
	}
	return errors.Errorf("deleting %q: %w", path, err)
}

// FindFilesByPattern returns every file under root whose base name matches
// pattern, in lexical order.
func (h *Handler) FindFilesByPattern(pattern, root string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(root, "**", pattern))
	if err != nil {
		return nil, errors.Errorf("searching for %q under %q: %w", pattern, root, err)
	}

	var files []string
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	return files, nil
}

// CurrentFolderName returns the base name of the working directory.
func (h *Handler) CurrentFolderName() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf("getting working directory: %w", err)
	}
	return filepath.Base(wd), nil
}
