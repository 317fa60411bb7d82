// Package githubenv manages GitHub deployment environments through the
// GitHub API.
package githubenv

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// apiClient is the slice of the GitHub API the package needs.
type apiClient interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	CreateUpdateEnvironment(ctx context.Context, owner, repo, name string, environment *github.CreateUpdateEnvironment) (*github.Environment, *github.Response, error)
	CreateEnvVariable(ctx context.Context, repoID int, env string, variable *github.ActionsVariable) (*github.Response, error)
	UpdateEnvVariable(ctx context.Context, repoID int, env string, variable *github.ActionsVariable) (*github.Response, error)
}

// Client creates environments and environment variables on a repository.
type Client struct {
	api apiClient
}

// NewClient builds a Client authenticated with GITHUB_TOKEN, falling back
// to the token the gh CLI holds.
func NewClient(ctx context.Context) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
		if err != nil {
			return nil, errors.Errorf("no GITHUB_TOKEN set and gh CLI is not authenticated, run 'gh auth login': %w", err)
		}
		token = strings.TrimSpace(string(out))
	}

	client := github.NewClient(nil).WithAuthToken(token)
	return &Client{api: &clientWrapper{client: client}}, nil
}

type clientWrapper struct {
	client *github.Client
}

func (w *clientWrapper) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	return w.client.Repositories.Get(ctx, owner, repo)
}

func (w *clientWrapper) CreateUpdateEnvironment(ctx context.Context, owner, repo, name string, environment *github.CreateUpdateEnvironment) (*github.Environment, *github.Response, error) {
	return w.client.Repositories.CreateUpdateEnvironment(ctx, owner, repo, name, environment)
}

func (w *clientWrapper) CreateEnvVariable(ctx context.Context, repoID int, env string, variable *github.ActionsVariable) (*github.Response, error) {
	return w.client.Actions.CreateEnvVariable(ctx, repoID, env, variable)
}

func (w *clientWrapper) UpdateEnvVariable(ctx context.Context, repoID int, env string, variable *github.ActionsVariable) (*github.Response, error) {
	return w.client.Actions.UpdateEnvVariable(ctx, repoID, env, variable)
}

func splitRepository(repository string) (string, string, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", errors.Errorf("invalid repository name: %s", repository)
	}
	return owner, repo, nil
}

// CreateEnvironment creates the environment on the repository. Creating an
// environment that already exists is a no-op on the API side.
func (c *Client) CreateEnvironment(ctx context.Context, repository, environment string) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("repository", repository).
		Str("environment", environment).
		Msg("creating github environment")

	_, _, err = c.api.CreateUpdateEnvironment(ctx, owner, repo, environment, &github.CreateUpdateEnvironment{})
	if err != nil {
		return errors.Errorf("creating environment %q on %s: %w", environment, repository, err)
	}
	return nil
}

// AddEnvironmentVariable sets a variable on the environment, overwriting
// any existing value.
func (c *Client) AddEnvironmentVariable(ctx context.Context, repository, environment, name, value string) error {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	// The environment variable endpoints address the repository by ID.
	ghRepo, _, err := c.api.GetRepository(ctx, owner, repo)
	if err != nil {
		return errors.Errorf("looking up repository %s: %w", repository, err)
	}
	repoID := int(ghRepo.GetID())

	variable := &github.ActionsVariable{Name: name, Value: value}

	resp, err := c.api.CreateEnvVariable(ctx, repoID, environment, variable)
	if err == nil {
		return nil
	}
	if resp != nil && resp.StatusCode == http.StatusConflict {
		// Variable exists, overwrite it.
		if _, err := c.api.UpdateEnvVariable(ctx, repoID, environment, variable); err != nil {
			return errors.Errorf("updating variable %q in environment %q: %w", name, environment, err)
		}
		return nil
	}
	return errors.Errorf("creating variable %q in environment %q: %w", name, environment, err)
}
