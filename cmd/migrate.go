package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ticketlogger/server/internal/database"
	"ticketlogger/server/internal/models"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update catalog tables",
	Long: `Run AutoMigrate for all catalog tables.

Examples:
  ticketlogger migrate          # Only schema
  ticketlogger migrate --seed   # Schema and default user/admin/manager accounts
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer database.Close(db)

		green := color.New(color.FgGreen, color.Bold)
		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		green.Println("✅ Schema is up to date")

		if migrateSeed {
			if err := models.InitDefaultUsers(db, cfg.DefaultUserPassword); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			green.Println("✅ Default users are present")
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Create default user/admin/manager accounts")
}
