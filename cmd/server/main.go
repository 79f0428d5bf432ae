package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/internal/server"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer database.Close(db)

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	client, err := scraper.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize court client", "error", err)
	}

	opts := []lookup.Option{lookup.WithPageSize(cfg.HistoryPageSize)}
	if cfg.CacheTTL > 0 {
		opts = append(opts, lookup.WithCache(cache.NewCache(cfg.CacheSize, cfg.CacheTTL)))
	}
	svc := lookup.NewService(database.NewStore(db), client, log, opts...)

	srv := server.New(cfg, svc, client, log)

	log.Info("Starting Court Case Lookup",
		"host", cfg.Host,
		"port", cfg.Port,
		"court", cfg.CourtName,
		"court_client", cfg.CourtClient,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
