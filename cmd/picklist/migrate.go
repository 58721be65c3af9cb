package main

import (
	"fmt"

	"metalflow-app/database"
	"metalflow-app/migration"

	"github.com/spf13/cobra"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := migration.Migrate(db); err != nil {
			return err
		}
		if migrateSeed {
			database.RunSeeders(db)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Seed branches, production areas and items")
	rootCmd.AddCommand(migrateCmd)
}
