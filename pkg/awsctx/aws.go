// Package awsctx talks to AWS through the user's local setup: profiles
// come from ~/.aws/config and writes go through the aws CLI, so the tool
// piggybacks on whatever SSO session the user already has.
package awsctx

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/ini.v1"
)

// Client resolves AWS profiles and writes SSM parameters.
type Client struct {
	// configPath overrides the ~/.aws/config location, for tests.
	configPath string
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) awsConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	if path := os.Getenv("AWS_CONFIG_FILE"); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".aws", "config"), nil
}

// ProfileNames returns the names of the profiles in ~/.aws/config whose
// sso_account_id matches the given account.
func (c *Client) ProfileNames(ctx context.Context, accountID string) ([]string, error) {
	path, err := c.awsConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := ini.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Errorf("loading AWS config %q: %w", path, err)
	}

	var names []string
	for _, section := range cfg.Sections() {
		if section.Key("sso_account_id").String() != accountID {
			continue
		}
		// Section names look like "profile my-account-AdministratorAccess".
		name := strings.TrimPrefix(section.Name(), "profile ")
		names = append(names, name)
	}

	zerolog.Ctx(ctx).Debug().
		Str("account_id", accountID).
		Strs("profiles", names).
		Msg("resolved aws profiles")

	return names, nil
}

// CreateParameter writes an SSM String parameter, overwriting any
// existing value. It shells out to the aws CLI so the user's SSO session
// is picked up without extra credential handling.
func (c *Client) CreateParameter(ctx context.Context, profile, name, value string) error {
	args := []string{
		"ssm", "put-parameter",
		"--name", name,
		"--value", value,
		"--type", "String",
		"--overwrite",
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}

	zerolog.Ctx(ctx).Debug().Str("name", name).Str("profile", profile).Msg("writing ssm parameter")

	out, err := exec.CommandContext(ctx, "aws", args...).CombinedOutput()
	if err != nil {
		return errors.Errorf("creating parameter %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
