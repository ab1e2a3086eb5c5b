package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tecuops/dispatch-sla/internal/advisor"
	"github.com/tecuops/dispatch-sla/internal/api"
	"github.com/tecuops/dispatch-sla/internal/calendar"
	"github.com/tecuops/dispatch-sla/internal/config"
	"github.com/tecuops/dispatch-sla/internal/dataset"
	"github.com/tecuops/dispatch-sla/internal/eval"
	"github.com/tecuops/dispatch-sla/internal/ingest"
	"github.com/tecuops/dispatch-sla/internal/logging"
	"github.com/tecuops/dispatch-sla/internal/sla"
	"github.com/tecuops/dispatch-sla/internal/storage"
	"github.com/tecuops/dispatch-sla/internal/storage/sqlite"
)

func main() {
	cfg, verbose := parseFlags()
	logging.Init(verbose)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Int("port", cfg.Port).
		Str("policy", cfg.PolicyFile).
		Str("db", cfg.DatabasePath).
		Msg("starting dispatch-sla server")

	params, cal, err := loadPolicy(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load SLA policy")
	}

	evaluator := eval.NewEvaluator(cal, params)
	engine := advisor.NewEngine(params)
	datasets := dataset.NewStore()

	var runs storage.RunStorage
	if cfg.DatabasePath != "" {
		store, err := sqlite.NewStore(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open run storage")
		}
		defer store.Close()
		runs = store
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	apiServer := api.NewServer(evaluator, engine, datasets, runs, addr)

	// Preload a dataset if one was given
	if cfg.DatasetFile != "" {
		orders, err := ingest.ReadFile(cfg.DatasetFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.DatasetFile).Msg("failed to read dataset")
		}
		if _, _, err := apiServer.Process(context.Background(), cfg.DatasetFile, orders); err != nil {
			log.Fatal().Err(err).Msg("failed to process dataset")
		}
		log.Info().Int("rows", len(orders)).Str("file", cfg.DatasetFile).Msg("dataset preloaded")
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- apiServer.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal().Err(err).Msg("server error")

	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("received signal")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down server")
		}

		log.Info().Msg("shutdown complete")
	}
}

func parseFlags() (config.Config, bool) {
	cfg := config.DefaultConfig()
	verbose := false

	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	flag.StringVar(&cfg.PolicyFile, "policy", cfg.PolicyFile, "SLA policy YAML file (optional)")
	flag.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON schema for policy validation")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite file for the run audit trail (empty disables)")
	flag.StringVar(&cfg.DatasetFile, "dataset", cfg.DatasetFile, "CSV dataset to preload (optional)")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")

	flag.Parse()

	return cfg, verbose
}

// loadPolicy resolves the effective SLA parameters and holiday calendar.
// Without a policy file the defaults and the built-in Colombian calendar
// apply.
func loadPolicy(cfg config.Config) (sla.Params, *calendar.Calendar, error) {
	params := sla.DefaultParams()
	cal := calendar.Colombia()

	if cfg.PolicyFile == "" {
		return params, cal, nil
	}

	validator, err := sla.NewValidator(cfg.SchemaFile)
	if err != nil {
		return params, nil, fmt.Errorf("load schema: %w", err)
	}
	if errs := validator.ValidateFile(cfg.PolicyFile); len(errs) > 0 {
		return params, nil, fmt.Errorf("policy validation failed: %s", errs[0].Error())
	}

	pf, err := sla.LoadPolicyFile(cfg.PolicyFile)
	if err != nil {
		return params, nil, err
	}

	extra, err := pf.HolidayDates()
	if err != nil {
		return params, nil, err
	}

	return pf.Params, cal.WithHolidays(extra...), nil
}
