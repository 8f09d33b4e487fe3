package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"signup-service/internal/repository/postgres"

	"github.com/spf13/cobra"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the orders and extras tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = os.Getenv("DATABASE_URL")
			}
			if dbURL == "" {
				return fmt.Errorf("database URL is required (--db or DATABASE_URL)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := postgres.ConnectDB(ctx, dbURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ schema up to date")
			return nil
		},
	}

	cmd.Flags().StringVar(&dbURL, "db", "", "Postgres connection string (defaults to DATABASE_URL)")

	return cmd
}
