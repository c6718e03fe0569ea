package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/jobtrack/internal/config"
	"github.com/timmy/jobtrack/internal/logger"
	"github.com/timmy/jobtrack/internal/repository"
	"github.com/timmy/jobtrack/internal/service"
	"github.com/timmy/jobtrack/internal/source"
	"github.com/timmy/jobtrack/internal/source/file"
	"github.com/timmy/jobtrack/internal/source/remote"
	"github.com/timmy/jobtrack/internal/tenant"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "jobtrack-import",
	})
	logger.SetDefaultLogger(appLogger)

	businessID := flag.Int64("business", 0, "Business (tenant) ID the jobs belong to")
	username := flag.String("user", "import", "Username recorded in logs for this run")
	sourceType := flag.String("source", "file", "Source to import from: file or remote")
	path := flag.String("path", "", "JSONL file for the file source (default import.file_path)")
	feedURL := flag.String("url", "", "Feed URL for the remote source (default import.remote_url)")
	limit := flag.Int("limit", 0, "Maximum number of records to import, 0 for all")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *businessID <= 0 {
		appLogger.Fatal("-business is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	var src source.Source
	switch *sourceType {
	case "file":
		p := *path
		if p == "" {
			p = cfg.Import.FilePath
		}
		src = file.NewAdapter(p)
	case "remote":
		u := *feedURL
		if u == "" {
			u = cfg.Import.RemoteURL
		}
		src, err = remote.NewAdapter(remote.Config{URL: u, Token: cfg.Import.Token, Timeout: cfg.Import.Timeout})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to configure remote source")
		}
	default:
		appLogger.WithField("source", *sourceType).Fatal("Unknown source type")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	jobRepo := repository.NewJobRepository(db, repository.NewStatusHistoryRepository(db), repository.JobRepositoryConfig{
		DefaultLimit:      cfg.Listing.DefaultLimit,
		MaxLimit:          cfg.Listing.MaxLimit,
		StrictTransitions: cfg.Jobs.StrictTransitions,
	})
	importer := service.NewImporter(service.NewJobService(jobRepo, nil), &service.ImporterConfig{
		Workers:   cfg.Import.Workers,
		BatchSize: cfg.Import.BatchSize,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = tenant.WithIdentity(ctx, tenant.Identity{BusinessID: *businessID, Username: *username})
	ctx = logger.SetTenant(appLogger.WithContext(ctx), *businessID, *username)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	stats, err := importer.Import(ctx, src, *limit)
	if err != nil {
		if stats != nil {
			appLogger.WithFields(logger.Fields{
				"total":   stats.TotalItems,
				"created": stats.CreatedItems,
				"failed":  stats.FailedItems,
			}).WithError(err).Error("Import stopped before the feed was exhausted")
			os.Exit(1)
		}
		appLogger.WithError(err).Fatal("Import failed")
	}
	if stats.FailedItems > 0 {
		appLogger.WithField("failed", stats.FailedItems).Warn("Some records were not imported")
		os.Exit(1)
	}
}
