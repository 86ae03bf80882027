// Package main is the entry point for the dropout-risk analysis CLI.
//
// The tool runs the full diagnostic pipeline for a single student and
// prints the final report as JSON to stdout. All logs go to stderr so
// the report can be piped cleanly into other tools.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/veloedu/risk-radar/config"
	"github.com/veloedu/risk-radar/internal/application/analysis"
	"github.com/veloedu/risk-radar/internal/domain/academic"
	"github.com/veloedu/risk-radar/internal/infrastructure/catalog"
	"github.com/veloedu/risk-radar/internal/infrastructure/dataset"
	"github.com/veloedu/risk-radar/internal/infrastructure/notify"
	"github.com/veloedu/risk-radar/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. FLAGS AND CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	var (
		studentID  = flag.String("id", "", "student identifier to analyze (required)")
		filePath   = flag.String("file", "", "dataset file path (overrides configured csv/sqlite path)")
		configPath = flag.String("config", "", "optional YAML config file")
		sourceKind = flag.String("source", "", "dataset source: csv, sqlite or postgres (overrides config)")
		pretty     = flag.Bool("pretty", false, "indent the report JSON")
		doNotify   = flag.Bool("notify", false, "dispatch the recommended action via Telegram")
	)
	flag.Parse()

	if *studentID == "" {
		flag.Usage()
		return fmt.Errorf("-id is required")
	}

	// Flags beat env vars and the config file. Overrides go in through the
	// environment so validation sees the final values.
	if *sourceKind != "" {
		os.Setenv("DATASET_SOURCE", *sourceKind)
	}
	if *filePath != "" {
		if *sourceKind == config.SourceSQLite {
			os.Setenv("DATASET_SQLITE_PATH", *filePath)
		} else {
			os.Setenv("DATASET_CSV_PATH", *filePath)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel))
	log.Info("starting analysis",
		logger.String("app", cfg.App.Name),
		logger.String("version", cfg.App.Version),
		logger.String("student_id", *studentID),
		logger.String("dataset_source", cfg.Dataset.Source))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. DATASET SOURCE
	// ─────────────────────────────────────────────────────────────────────────
	source, closeSource, err := buildSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening dataset source: %w", err)
	}
	defer closeSource()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. PLAYBOOK CATALOG
	// ─────────────────────────────────────────────────────────────────────────
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading playbook catalog: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. PIPELINE
	// ─────────────────────────────────────────────────────────────────────────
	coordinator := analysis.NewCoordinator(analysis.CoordinatorDeps{
		Source:     source,
		Catalog:    cat,
		Thresholds: thresholdsFromConfig(cfg.Analysis),
		Logger:     log,
	})

	result, err := coordinator.Analyze(ctx, academic.StudentID(*studentID))
	if err != nil {
		return fmt.Errorf("analyzing student %s: %w", *studentID, err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. OUTPUT
	// ─────────────────────────────────────────────────────────────────────────
	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(result.Report, "", "  ")
	} else {
		out, err = json.Marshal(result.Report)
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Println(string(out))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. OPTIONAL ALERT DISPATCH
	// ─────────────────────────────────────────────────────────────────────────
	if *doNotify || cfg.Telegram.Enabled {
		tcfg := notify.DefaultTelegramConfig(cfg.Telegram.Token, cfg.Telegram.ChatID)
		tcfg.Timeout = cfg.Telegram.RequestTimeout
		tcfg.RetryAttempts = cfg.Telegram.MaxRetries

		notifier := notify.NewTelegramNotifier(tcfg, log)
		if err := notifier.Send(ctx, result); err != nil {
			// The report already went to stdout; alert failure is non-fatal.
			log.Error("alert dispatch failed", logger.Err(err))
		}
	}

	return nil
}

func buildSource(ctx context.Context, cfg *config.Config) (academic.RecordSource, func(), error) {
	switch cfg.Dataset.Source {
	case config.SourceCSV:
		return dataset.NewCSVSource(cfg.Dataset.CSVPath), func() {}, nil

	case config.SourceSQLite:
		src, err := dataset.NewSQLiteSource(cfg.Dataset.SQLitePath, cfg.Dataset.Table)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { _ = src.Close() }, nil

	case config.SourcePostgres:
		pgCfg := dataset.PostgresConfig{
			URL:            cfg.Dataset.DatabaseURL,
			Table:          cfg.Dataset.Table,
			ConnectTimeout: cfg.Dataset.ConnectTimeout,
			QueryTimeout:   cfg.Dataset.QueryTimeout,
		}
		src, err := dataset.NewPostgresSource(ctx, pgCfg)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}

func thresholdsFromConfig(a config.AnalysisConfig) analysis.Thresholds {
	return analysis.Thresholds{
		CriticalScore:         a.CriticalScore,
		SignificantDrop:       a.SignificantDrop,
		LowPresence:           a.LowPresence,
		StableAttendance:      a.StableAttendance,
		MinGradeEvidence:      a.MinGradeEvidence,
		MinAttendanceEvidence: a.MinAttendanceEvidence,
	}
}
