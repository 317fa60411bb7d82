package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nsbno/vydev-migrate/cmd/vydev/opts"
	"github.com/nsbno/vydev-migrate/pkg/appcontext"
	"github.com/nsbno/vydev-migrate/pkg/awsctx"
	"github.com/nsbno/vydev-migrate/pkg/cache"
	"github.com/nsbno/vydev-migrate/pkg/config"
	"github.com/nsbno/vydev-migrate/pkg/fileutil"
	"github.com/nsbno/vydev-migrate/pkg/githubenv"
	"github.com/nsbno/vydev-migrate/pkg/migration"
	"github.com/nsbno/vydev-migrate/pkg/terraform"
	"github.com/nsbno/vydev-migrate/pkg/ui"
	"github.com/nsbno/vydev-migrate/pkg/vcs"
	"github.com/nsbno/vydev-migrate/pkg/workflows"
)

// newRootOpts wires the adapters together.
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	overrides, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		zerolog.Ctx(ctx).Debug().Str("file", overrides.Location()).Msg("loaded overrides")
	}

	m := &migration.Migration{
		Files:     fileutil.NewHandler(),
		VCS:       vcs.NewGit(),
		Registry:  terraform.NewScanner(),
		Modules:   terraform.NewModuleEditor(),
		Providers: terraform.NewProviderEditor(),
		Services:  terraform.NewServiceEditor(),
		Workflows: workflows.NewAuthor(),
		AWS:       awsctx.NewClient(),
		App:       appcontext.NewFinder(),
	}

	githubReady := true
	github, err := githubenv.NewClient(ctx)
	if err != nil {
		// Commands fall back to manual environment setup.
		zerolog.Ctx(ctx).Debug().Err(err).Msg("github api unavailable")
		githubReady = false
	} else {
		m.Github = github
	}

	return &opts.RootOpts{
		Migration:   m,
		Console:     ui.NewConsole(),
		Cache:       cache.New(""),
		Overrides:   overrides,
		GithubReady: githubReady,
	}, nil
}
