// Package cli provides the command-line interface for the clipforge
// pipeline.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/cache"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	logFile string

	// Global config and connections, set up by the root PersistentPreRunE
	cfg        *config.Config
	logger     *slog.Logger
	logCleanup func() error
	pool       *pgxpool.Pool
	st         store.Store
	ca         cache.Cache
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Educational short-form video pipeline",
	Long: `The clipforge pipeline discovers licensed educational videos, transcribes
them, extracts the most teachable segment with an LLM, renders a subtitled
short, and queues the result for human review.

Each stage claims a Redis run lock, so concurrent invocations of the same
stage are safe: the second invocation is turned away instead of double
processing jobs.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(logFile, level)
		slog.SetDefault(logger)

		ctx := cmd.Context()
		pool, err = store.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		st = store.NewPostgresStore(pool)

		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		ca = redisCache

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if ca != nil {
			if err := ca.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close redis: %v\n", err)
			}
		}
		if pool != nil {
			pool.Close()
		}
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "clipforge.log", "JSON log file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(crawlCmd)
}
