package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ticketlogger/server/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ticketlogger",
	Short: "Ticket Logger catalog administration server",
	Long: `ticketlogger serves the catalog administration backend
(regions, provinces, supermarkets, locations, categories).

Examples:

  ticketlogger serve
  ticketlogger migrate --seed
  ticketlogger health --timeout 10s
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Игнорируем ошибку, если файл не найден (для production окружений)
		if err := godotenv.Load(); err != nil {
			log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
		} else {
			log.Printf("✅ Переменные окружения загружены из .env файла")
		}
		cfg = config.Load()
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(healthCmd)
}
