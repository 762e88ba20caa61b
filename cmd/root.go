// Package cmd defines and implements the CLI commands for the enricher
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seedlist/enricher/internal/airtable"
	"github.com/seedlist/enricher/internal/config"
	"github.com/seedlist/enricher/internal/crawl"
	"github.com/seedlist/enricher/internal/logging"
	"github.com/seedlist/enricher/internal/metrics"
	"github.com/seedlist/enricher/internal/runner"
)

var cfgFile string

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// app bundles the services the subcommands need.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	runner *runner.Runner
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enricher",
		Short: "Enriches sparse startup records from datasets and company websites.",
		Long: `enricher fills missing attributes on sparse company records —
funding, employee counts, location, executive email, funding round — by
cross-referencing an external dataset or politely crawling each company's
own website. Writes go back to the record store as minimal patches that
never overwrite existing values, so re-runs are safe.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := buildApp()
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars use the ENRICHER_ prefix")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newDatasetCmd())
	cmd.AddCommand(newSyncCmd())
	return cmd
}

func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}
	metrics.Init()
	if cfg.Metrics.Addr != "" {
		startMetricsListener(cfg.Metrics.Addr, logger)
	}

	store := airtable.New(airtable.Config{
		APIRoot:       cfg.Airtable.APIRoot,
		Token:         cfg.Airtable.Token,
		BaseID:        cfg.Airtable.BaseID,
		Timeout:       cfg.Store.Timeout,
		RetryAttempts: cfg.Store.RetryAttempts,
		BackoffBase:   cfg.Store.BackoffBase,
		ChunkSize:     cfg.Store.ChunkSize,
		ChunkPause:    cfg.Store.ChunkPause,
	}, logger)

	fetcher := crawl.NewCollyFetcher(crawl.FetcherConfig{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.Crawler.RequestTimeout,
	}, logger)
	robots := crawl.NewRobotsEnforcer(cfg.Crawler.RespectRobots, cfg.Crawler.UserAgent, logger)
	site := crawl.NewSiteEnricher(fetcher, robots, cfg.Crawler.MaxPagesPerSite, cfg.Crawler.Pause, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		runner: runner.New(store, site, cfg, logger),
	}, nil
}

func startMetricsListener(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics listener started", zap.String("addr", addr))
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
