// Package commands implements the transcripts CLI, the offline counterpart
// to the bot's operator-only transcript view.
package commands

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palaverbot/palaver/internal/db"
	"github.com/palaverbot/palaver/internal/store"
)

var dbPath string

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "transcripts",
		Short:        "Inspect stored conversation transcripts",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the bot database (defaults to PALAVER_DB_PATH, then palaver.db)")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if v := os.Getenv("PALAVER_DB_PATH"); v != "" {
		return v
	}
	return "palaver.db"
}

func openStore() (*store.Store, *sql.DB, error) {
	database, err := db.OpenDB(resolveDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.InitSchema(database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store.New(database, ""), database, nil
}
