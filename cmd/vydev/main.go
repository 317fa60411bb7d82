package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nsbno/vydev-migrate/cmd/vydev/commands"
)

var debug bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "vydev",
		Short: "Migrate a repository from the old deployment pipeline to GitHub Actions",
		Long: `vydev migrates a repository from the CircleCI deployment pipeline to
GitHub Actions: it rewrites the Terraform configuration, generates the
workflow files, and sets up the GitHub environments.

Run 'vydev aws' in your team's -aws repository first, then
'vydev prepare' and 'vydev application' in each application repository.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				cmd.SetContext(setupLogging(cmd.Context(), zerolog.DebugLevel))
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	ctx := setupLogging(context.Background(), zerolog.InfoLevel)

	o, err := newRootOpts(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("initializing")
		os.Exit(1)
	}

	rootCmd.AddCommand(
		commands.NewAWSCmd(o),
		commands.NewPrepareCmd(o),
		commands.NewApplicationCmd(o),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func setupLogging(ctx context.Context, level zerolog.Level) context.Context {
	if os.Getenv("VYDEV_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger.WithContext(ctx)
}
