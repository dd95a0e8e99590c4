package main

import (
	"context"

	"github.com/spf13/cobra"
)

// migrateCmd creates the tables owned by the API
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the application tables",
	Long: `Create the saved-query, counter, user and session tables if they do not exist.

The roll, match and staging tables are owned elsewhere and are never touched.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	log.Info("Schema is up to date", map[string]interface{}{
		"database": cfg.Database.Name,
	})
	cmd.Println("Schema is up to date")
	return nil
}
