// Package vcs is the git adapter for the migration tool. It shells out to
// the git binary, which is guaranteed to exist wherever the tool runs: the
// whole point of the tool is rewriting a checked-out repository.
package vcs

import (
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Git runs git commands in the current working directory.
type Git struct{}

func NewGit() *Git {
	return &Git{}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	zerolog.Ctx(ctx).Debug().Strs("args", args).Msg("running git")

	out, err := exec.CommandContext(ctx, "git", args...).CombinedOutput()
	if err != nil {
		return "", errors.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// Commit stages every change and commits with the given message.
func (g *Git) Commit(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "add", "."); err != nil {
		return err
	}
	if _, err := g.run(ctx, "commit", "-m", message); err != nil {
		return err
	}
	return nil
}

func (g *Git) Push(ctx context.Context) error {
	_, err := g.run(ctx, "push")
	return err
}

// OriginURL returns the origin remote in "github.com/org/repo" form,
// whether the remote is configured over ssh or https.
func (g *Git) OriginURL(ctx context.Context) (string, error) {
	raw, err := g.run(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", err
	}
	return normalizeRemote(raw), nil
}

func normalizeRemote(raw string) string {
	url := strings.TrimSuffix(raw, ".git")
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "ssh://")
	if after, ok := strings.CutPrefix(url, "git@"); ok {
		url = strings.Replace(after, ":", "/", 1)
	}
	return url
}

// IsClean reports whether the repository has no uncommitted changes to
// tracked files.
func (g *Git) IsClean(ctx context.Context) (bool, error) {
	out, err := g.run(ctx, "status", "-uno", "--porcelain")
	if err != nil {
		return false, err
	}
	return out == "", nil
}

// ChangedFiles returns the paths with uncommitted changes, untracked files
// included.
func (g *Git) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		// Porcelain lines are "XY path"; strip the two status columns.
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files, nil
}
