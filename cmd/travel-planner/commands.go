package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	httpapi "github.com/i474232898/retirement-travel-planner/internal/api/http"
	"github.com/i474232898/retirement-travel-planner/internal/config"
	"github.com/i474232898/retirement-travel-planner/internal/logging"
	"github.com/i474232898/retirement-travel-planner/internal/planner"
	"github.com/i474232898/retirement-travel-planner/internal/scheduler"
	"github.com/i474232898/retirement-travel-planner/internal/session"
	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
	"github.com/i474232898/retirement-travel-planner/internal/travel/providers"
)

const appName = "travel-planner"

var (
	cfg    *config.AppConfig
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Retirement travel planner",
		Long:          "Plans retirement trips from weather, air quality and nearby attractions for each city.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger = logging.New(cfg, os.Stderr, appName)
			slog.SetDefault(logger)
			return nil
		},
		RunE: runPlan,
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Interactive planning session (default)",
		RunE:  runPlan,
	}

	reportCmd := &cobra.Command{
		Use:   "report [city...]",
		Short: "Build a detailed report for the given cities and save it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReport,
	}
	reportCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().Bool("persist", false, "Also write every report to OUTPUT_DIR")

	watchCmd := &cobra.Command{
		Use:   "watch [city...]",
		Short: "Build reports periodically for WATCH_CITIES or the given cities",
		RunE:  runWatch,
	}

	rootCmd.AddCommand(planCmd, reportCmd, serveCmd, watchCmd)
	return rootCmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireEngine(); err != nil {
		return err
	}
	if err := cfg.RequireMaps(); err != nil {
		return err
	}

	client := providers.NewHTTPClient(cfg.HTTPTimeout)
	dispatcher, err := newDispatcher(cfg, client, logger)
	if err != nil {
		return err
	}
	agg := travel.NewAggregator(newSources(cfg, client, logger), travel.WithLogger(logger))

	s := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), dispatcher, agg, store.NewFileSink(cfg.OutputDir), logger)
	_, err = s.Run(cmd.Context())
	return err
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireMaps(); err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output != "text" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	svc := newService(store.NewFileSink(cfg.OutputDir))
	report, err := svc.Report(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Cities)
	}
	_, err = fmt.Fprintln(out, report.Text())
	return err
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.RequireMaps(); err != nil {
		return err
	}

	client := providers.NewHTTPClient(cfg.HTTPTimeout)
	dispatcher, err := newDispatcher(cfg, client, logger)
	if engineErr := cfg.RequireEngine(); engineErr != nil || err != nil {
		logger.Warn("planning endpoint disabled", "error", errors.Join(engineErr, err))
		dispatcher = nil
	}

	var sink store.Sink
	if persist, _ := cmd.Flags().GetBool("persist"); persist {
		sink = store.NewFileSink(cfg.OutputDir)
	}
	svc := newServiceWith(newSources(cfg, client, logger), dispatcher, sink)

	sched := scheduler.New(cfg.WatchCities, cfg.WatchInterval, cfg.HTTPTimeout*4, svc, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(svc)
	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	<-cmd.Context().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireMaps(); err != nil {
		return err
	}
	cities := cfg.WatchCities
	if len(args) > 0 {
		cities = args
	}
	if len(cities) == 0 {
		return errors.New("no cities to watch: set WATCH_CITIES or pass cities as arguments")
	}

	svc := newService(store.NewFileSink(cfg.OutputDir))
	sched := scheduler.New(cities, cfg.WatchInterval, cfg.HTTPTimeout*4, svc, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	<-cmd.Context().Done()
	return nil
}

func newService(sink store.Sink) *planner.Service {
	sources := newSources(cfg, providers.NewHTTPClient(cfg.HTTPTimeout), logger)
	return newServiceWith(sources, nil, sink)
}

func newServiceWith(sources travel.Sources, dispatcher *agent.Dispatcher, sink store.Sink) *planner.Service {
	agg := travel.NewAggregator(sources, travel.WithLogger(logger))
	reports := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	return planner.NewService(agg, dispatcher, reports, sink, logger)
}
