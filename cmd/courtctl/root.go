// courtctl is the operator CLI for the court case lookup service.
//
// Usage:
//
//	courtctl search --type=<code> --number=<n> --year=<yyyy>
//	courtctl history [--limit=20] [--offset=0]
//	courtctl show <query-id> [--raw]
//	courtctl downloads <query-id>
//	courtctl download <query-id> <pdf-url> [-o file]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JustJay7/court-case-lookup/internal/cache"
	"github.com/JustJay7/court-case-lookup/internal/config"
	"github.com/JustJay7/court-case-lookup/internal/database"
	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	dbPath   string
	client   string
	logLevel string
}

// app holds what PersistentPreRunE opened for the running command.
var app struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *gorm.DB
	client scraper.Client
	svc    *lookup.Service
}

var rootCmd = &cobra.Command{
	Use:   "courtctl",
	Short: "Look up Delhi High Court cases and browse the search history",
	Long: "courtctl runs case searches against the court portal (or the demo client)\n" +
		"and reads the recorded search and download history from the local database.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE:  openApp,
	PersistentPostRunE: closeApp,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.dbPath, "db", "", "Database path (overrides DATABASE_PATH)")
	f.StringVar(&rootFlags.client, "client", "", "Court client: demo or live (overrides COURT_CLIENT)")
	f.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(downloadsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.Version = version
}

func openApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rootFlags.dbPath != "" {
		cfg.DatabasePath = rootFlags.dbPath
	}
	if rootFlags.client != "" {
		cfg.CourtClient = rootFlags.client
	}
	cfg.LogLevel = rootFlags.logLevel
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.LogLevel, "text")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	client, err := scraper.New(cfg, log)
	if err != nil {
		database.Close(db)
		return fmt.Errorf("init court client: %w", err)
	}

	opts := []lookup.Option{lookup.WithPageSize(cfg.HistoryPageSize)}
	if cfg.CacheTTL > 0 {
		opts = append(opts, lookup.WithCache(cache.NewCache(cfg.CacheSize, cfg.CacheTTL)))
	}

	app.cfg = cfg
	app.log = log
	app.db = db
	app.client = client
	app.svc = lookup.NewService(database.NewStore(db), client, log, opts...)
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app.client != nil {
		if err := app.client.Close(); err != nil {
			app.log.Warn("Failed to close court client", "error", err)
		}
		app.client = nil
	}
	if app.db != nil {
		database.Close(app.db)
		app.db = nil
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
	return nil
}

// userError replaces err with the user-facing message of its kind so
// storage and driver details stay in the log.
func userError(err error) error {
	return errors.New(lookup.KindOf(err).Message())
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails
	_ = closeApp(nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
