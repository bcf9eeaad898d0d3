package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"followexport/config"
	"followexport/core"
	"followexport/export"
	"followexport/log"
	"followexport/scrape"
	"followexport/twitterapi"
)

// dependencies are built once per command invocation.
type dependencies struct {
	cfg          *config.Config
	logger       *zap.SugaredLogger
	exporter     *export.CSVExporter
	source       core.Source
	orchestrator *core.Orchestrator
	closers      []io.Closer
}

func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Options{
		ConfigFile: a.flags.configFile,
		EnvFile:    a.flags.envFile,
		Flags:      cmd.Flags(),
	})
}

// baseDependencies loads configuration, logger and exporter without touching the network.
func (a *App) baseDependencies(cmd *cobra.Command) (*dependencies, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	d := &dependencies{cfg: cfg}

	var logFile io.Writer
	if cfg.Log.File != "" {
		f, err := log.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		d.closers = append(d.closers, f)
		logFile = f
	}

	d.logger = log.NewCliLogger(a.stdout, logFile, cfg.Log.Verbose)
	d.exporter = export.NewCSVExporter(a.fs, a.clock, cfg.OutputDir)

	return d, nil
}

// fullDependencies also sets up the source and the output directory.
func (a *App) fullDependencies(cmd *cobra.Command) (*dependencies, error) {
	ctx := cmd.Context()
	d, err := a.baseDependencies(cmd)
	if err != nil {
		return nil, err
	}

	d.source, err = a.newSource(ctx, d.cfg, d.logger)
	if err != nil {
		d.Close()
		return nil, err
	}

	if err := d.exporter.EnsureDir(); err != nil {
		d.Close()
		return nil, err
	}

	d.orchestrator = core.NewOrchestrator(d.source, d.exporter, d.logger)

	return d, nil
}

func (d *dependencies) Close() {
	if d.logger != nil {
		_ = d.logger.Sync()
	}
	for _, c := range d.closers {
		_ = c.Close()
	}
}

// NewSource builds the configured source, the API one fails with
// core.ErrCredentialSetup when its credentials are missing or rejected.
func NewSource(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (core.Source, error) {
	switch cfg.Source {
	case config.SourceAPI:
		client, err := twitterapi.NewClient(ctx, twitterapi.Config{
			BaseURL:          cfg.API.BaseURL,
			Timeout:          cfg.API.Timeout,
			PageSize:         cfg.API.PageSize,
			RetryCount:       cfg.API.RetryCount,
			MaxRateLimitWait: cfg.API.MaxRateLimitWait,
			Credentials: twitterapi.Credentials{
				ConsumerKey:       cfg.API.ConsumerKey,
				ConsumerSecret:    cfg.API.ConsumerSecret,
				AccessToken:       cfg.API.AccessToken,
				AccessTokenSecret: cfg.API.AccessTokenSecret,
			},
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := client.Verify(ctx); err != nil {
			return nil, err
		}
		return client, nil
	default:
		return scrape.NewScraper(scrape.Config{
			BaseURL:   cfg.Scrape.BaseURL,
			UserAgent: cfg.Scrape.UserAgent,
			Timeout:   cfg.Scrape.Timeout,
		}, logger), nil
	}
}
