package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"ticketlogger/server/internal/database"
	"ticketlogger/server/internal/utils"
)

var healthTimeout time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and Redis connectivity",
	Long: `Check if the database (and Redis, when configured) is accessible.

Examples:
  ticketlogger health                    # Default timeout
  ticketlogger health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen, color.Bold)
		red := color.New(color.FgRed, color.Bold)
		yellow := color.New(color.FgYellow)

		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()

		failed := false
		if err := checkDatabase(ctx); err != nil {
			red.Printf("❌ Database health check failed: %v\n", err)
			failed = true
		} else {
			green.Printf("✅ Database (%s) is healthy and accessible\n", cfg.DBDriver)
		}

		if cfg.RedisURL == "" {
			yellow.Println("⚠️  REDIS_URL not set, flash messages are kept in memory")
		} else if err := checkRedis(ctx); err != nil {
			red.Printf("❌ Redis health check failed: %v\n", err)
			failed = true
		} else {
			green.Println("✅ Redis is healthy and accessible")
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabase(ctx context.Context) error {
	if cfg.DBDriver == "sqlite" || cfg.DBDriver == "sqlite3" {
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.Ping(db)
	}

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	var tables int
	err = conn.QueryRow(ctx, `SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name IN ('regions', 'provinces', 'supermarkets', 'locations', 'categories', 'users')`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("failed to check catalog tables: %w", err)
	}
	if tables < 6 {
		fmt.Printf("⚠️  Found %d of 6 catalog tables, run 'ticketlogger migrate'\n", tables)
	}
	return nil
}

func checkRedis(ctx context.Context) error {
	client, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisSentinelAddrs, cfg.RedisMasterName)
	if err != nil {
		return err
	}
	defer database.CloseRedis(client)
	return utils.NewRedisClient(client).Ping(ctx)
}
