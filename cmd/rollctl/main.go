// Command rollctl runs maintenance tasks against the electraSIR database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/manor5/electraSIR/internal/config"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/spf13/cobra"
)

var (
	envFile string
	timeout time.Duration

	cfg *config.Config
	log *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rollctl",
	Short: "Maintenance tool for the electraSIR roll API",
	Long: `rollctl prepares the database and manages accounts for the electraSIR API.

Configuration is read from the same environment variables as the server.
A .env.local file in the working directory is loaded first when present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			_ = godotenv.Load(envFile)
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded
		log = logger.NewWithWriter(cfg.Server.Env, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env.local", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(translitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens a pool with the loaded database settings.
func connect(ctx context.Context) (*database.Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
