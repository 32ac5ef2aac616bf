package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/errhandling/config"
	"github.com/kbukum/errhandling/logger"
	"github.com/kbukum/errhandling/observability"
)

const shutdownTimeout = 5 * time.Second

// app carries the state shared by every subcommand.
type app struct {
	configFile string
	envFile    string
	noColor    bool

	cfg   Config
	log   *logger.Logger
	meter *sdkmetric.MeterProvider

	// exporter replaces the OTLP exporter when set.
	exporter sdkmetric.Exporter
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Version:       buildVersion(),
		Short:         "Normalize error payloads and route failed requests to status handlers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to config.yml (searched for when empty)")
	flags.StringVar(&a.envFile, "env-file", "", "path to a .env file (searched for when empty)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newNormalizeCmd(a), newFetchCmd(a), newServeCmd(a))
	return root
}

// execute runs root and then flushes metrics. Cobra skips post-run hooks
// when a command fails, so the flush cannot live in one.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	a.shutdown(context.WithoutCancel(ctx))
	return err
}

// setup loads configuration, then initializes logging and metrics. Until the
// configured logger exists, warnings go to stderr so stdout stays parseable.
func (a *app) setup(cmd *cobra.Command) error {
	bootstrap := logger.New(&logger.Config{
		Level:   "warn",
		Format:  logger.FormatConsole,
		NoColor: a.noColor,
		Writer:  cmd.ErrOrStderr(),
	}, serviceName)

	opts := []config.LoaderOption{config.WithLogger(bootstrap.WithComponent("config"))}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}
	if err := config.LoadConfig(serviceName, &a.cfg, opts...); err != nil {
		return err
	}

	if a.noColor {
		color.NoColor = true
		a.cfg.Logging.NoColor = true
	}
	logger.Init(a.cfg.Logging)
	a.log = logger.Get(serviceName)

	if a.cfg.Metrics.Enabled() {
		var meterOpts []observability.MeterOption
		if a.exporter != nil {
			meterOpts = append(meterOpts, observability.WithExporter(a.exporter))
		}
		mp, err := observability.InitMeter(cmd.Context(), &a.cfg.Metrics, meterOpts...)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		a.meter = mp
	}
	return nil
}

// shutdown flushes pending metrics.
func (a *app) shutdown(ctx context.Context) {
	if a.meter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := a.meter.Shutdown(ctx); err != nil {
		a.log.Warn("metrics shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
	a.meter = nil
}
