// Package opts holds the shared dependencies the vydev commands run with.
package opts

import (
	"github.com/nsbno/vydev-migrate/pkg/config"
	"github.com/nsbno/vydev-migrate/pkg/migration"
	"github.com/nsbno/vydev-migrate/pkg/ui"
)

// RootOpts is built once in main and handed to every command.
type RootOpts struct {
	Migration *migration.Migration
	Console   *ui.Console
	Cache     migration.ConfigCache
	// Overrides is nil when the repository has no .vydev override file.
	Overrides *config.Overrides
	// GithubReady reports whether the GitHub API client could be set up.
	// When false, commands fall back to manual setup instructions.
	GithubReady bool
}
