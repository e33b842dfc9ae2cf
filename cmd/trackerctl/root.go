package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/app"
	"github.com/jpp0ca/DV360Trackers-API/internal/bootstrap"
	"github.com/jpp0ca/DV360Trackers-API/internal/config"
	"github.com/jpp0ca/DV360Trackers-API/internal/logging"
)

type rootOptions struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "trackerctl",
		Short: "Edit DV360 creative third-party trackers in bulk",
		Long: `trackerctl reconciles tracker edits from a CSV or XLSX sheet into
Display & Video 360 creatives, and exports the current trackers of a set of
creatives into an editable template.

Configuration is read from the environment, the same variables as the API.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before the environment")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	cmd.AddCommand(
		newBulkCmd(opts),
		newExportCmd(opts),
		newTypesCmd(opts),
		newAuthCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() (*config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Server.LogLevel = o.logLevel
	}
	return cfg, nil
}

// env is a loaded config with its logger and wired service.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	deps   *bootstrap.Deps
}

func (o *rootOptions) build(progress app.ProgressFunc) (*env, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Server.LogLevel, cfg.Server.Environment)
	if err != nil {
		return nil, err
	}
	deps, err := bootstrap.Build(cfg, logger, progress)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, deps: deps}, nil
}

func (e *env) close() {
	if err := e.deps.Close(); err != nil {
		e.logger.Warn("failed to close stores", zap.Error(err))
	}
	_ = e.logger.Sync()
}
