package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domshot/internal/config"
	"domshot/internal/observability"
	"domshot/internal/pipeline"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "domshot",
		Short:         "Render captured DOM snapshots to images",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML); DOMSHOT_* variables override it")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRenderCmd(a),
		newCaptureCmd(a),
		newBatchCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return err
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	observability.InitializeLogger(cfg.Logger)
	a.cfg = cfg
	a.logger = observability.GetLogger()
	return nil
}

// pipeline validates flag overrides and builds the render pipeline.
func (a *app) pipeline() (*pipeline.Pipeline, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	return pipeline.New(a.cfg, a.logger)
}
