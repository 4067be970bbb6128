// Package cli is the jobeval command line: the HTTP server plus a few
// operator commands that share its configuration.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobeval/internal/platform/config"
	"jobeval/internal/platform/logger"
)

const app = "jobeval"

// options is the state shared by every subcommand.
type options struct {
	cfgFile string
	v       *viper.Viper
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand assembles the command tree. Each call gets its own viper
// instance so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}

	root := &cobra.Command{
		Use:           app,
		Short:         "jobeval screens job applications against the hiring rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "a config file (yaml, json or toml)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = opts.v.BindPFlag("log.debug", root.PersistentFlags().Lookup("debug"))
	_ = opts.v.BindPFlag("log.json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		newServeCommand(opts),
		newEvaluateCommand(opts),
		newCheckConnectionCommand(opts),
		newIssueTokenCommand(opts),
	)
	return root
}

// load reads the configuration and builds the process logger.
func (o *options) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWith(o.v, o.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
