package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/config"
	"github.com/feral-file/og-claim/internal/importer"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	csvFile    = flag.String("file", "", "Path to a CSV file with one handle per row")
)

func main() {
	flag.Parse()

	if *csvFile == "" {
		fmt.Fprintln(os.Stderr, "usage: import-handles -file <handles.csv> [-config <file>] [-env <dir>]")
		os.Exit(2)
	}

	config.ChdirRepoRoot()
	cfg, err := config.LoadImportConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Environment:     cfg.Environment,
		Tags: map[string]string{
			"service": "og-claim-import-handles",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := store.Open(cfg.Database.Driver, cfg.Database.ConnectionString(), cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Worker.WorkerPoolSize, cfg.Worker.WorkerPoolSize, 0, 0); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := store.AutoMigrate(db); err != nil {
			logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
		}
	}

	imp := importer.New(store.NewSQLStore(db), adapter.NewFileSystem(), importer.Config{
		WorkerPoolSize: cfg.Worker.WorkerPoolSize,
		BatchSize:      cfg.Worker.BatchSize,
	})

	start := time.Now()
	result, err := imp.ImportFile(ctx, *csvFile)
	if result != nil {
		logger.InfoCtx(ctx, "Import finished",
			zap.String("file", *csvFile),
			zap.Int("read", result.Read),
			zap.Int("accepted", result.Accepted),
			zap.Int64("inserted", result.Inserted),
			zap.Int("rejected", len(result.Rejected)),
			zap.Int("failed_batches", result.FailedBatches),
			zap.Duration("duration", time.Since(start)))
		for _, handle := range result.Rejected {
			logger.WarnCtx(ctx, "Rejected handle", zap.String("handle", handle))
		}
	}
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("file", *csvFile))
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}
