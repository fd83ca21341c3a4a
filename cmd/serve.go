package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ticketlogger/server/internal/api"
	"ticketlogger/server/internal/database"
	"ticketlogger/server/internal/events"
	"ticketlogger/server/internal/i18n"
	"ticketlogger/server/internal/models"
	"ticketlogger/server/internal/repository"
	"ticketlogger/server/internal/services"
	"ticketlogger/server/internal/storage"
	"ticketlogger/server/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP and gRPC health servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is empty")
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "sqlite3" {
		logger.Printf("🔍 DATABASE_URL: %s", maskDatabaseURL(cfg.DatabaseURL))
	}
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := models.InitDefaultUsers(db, cfg.DefaultUserPassword); err != nil {
		return fmt.Errorf("failed to seed default users: %w", err)
	}

	messages, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	flash := newFlashStore(logger)

	files, uploadDir, err := newFileStorage(logger)
	if err != nil {
		return err
	}

	hub := api.NewHub(logger)
	go hub.Run(ctx)

	publisher := newPublisher(logger, hub)
	defer publisher.Close()

	store := repository.NewStore(db)
	supermarkets := services.NewSupermarketService(store, publisher, logger)

	router := api.NewRouter(api.RouterDeps{
		Messages:      messages,
		Flash:         flash,
		Logger:        logger,
		SecureCookies: cfg.Environment == "production",
		UploadDir:     uploadDir,
		Auth:          services.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL, logger),
		Regions:       services.NewRegionService(store, publisher, logger),
		Provinces:     services.NewProvinceService(store, publisher, logger),
		Supermarkets:  supermarkets,
		Locations:     services.NewLocationService(store, publisher, logger),
		Categories:    services.NewCategoryService(store, files, publisher, logger),
		Dashboard:     services.NewDashboardService(store, supermarkets, logger),
		Hub:           hub,
	})

	health := startGRPCHealth(ctx, db, logger)
	if health != nil {
		defer health.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("🚀 HTTP сервер запущен на порту %s (gin mode: %s)", cfg.ServerPort, gin.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Println("🛑 Получен сигнал остановки, завершаем работу...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	logger.Println("✅ Сервер остановлен")
	return nil
}

// newFlashStore выбирает Redis, если он доступен, иначе память процесса
func newFlashStore(logger *log.Logger) api.FlashStore {
	if cfg.RedisURL == "" && len(cfg.RedisSentinelAddrs) == 0 {
		logger.Println("⚠️ REDIS_URL не задан, flash-сообщения хранятся в памяти")
		return api.NewMemoryFlashStore()
	}
	client, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisSentinelAddrs, cfg.RedisMasterName)
	if err != nil {
		logger.Printf("⚠️ Redis недоступен (%v), flash-сообщения хранятся в памяти", err)
		return api.NewMemoryFlashStore()
	}
	return api.NewRedisFlashStore(utils.NewRedisClient(client))
}

// newFileStorage возвращает хранилище картинок категорий и каталог для /uploads
func newFileStorage(logger *log.Logger) (storage.FileStorage, string, error) {
	if cfg.CloudinaryURL != "" {
		cld, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize Cloudinary: %w", err)
		}
		return cld, "", nil
	}
	local, err := storage.NewLocalStorage(cfg.UploadDir, logger)
	if err != nil {
		return nil, "", fmt.Errorf("failed to prepare upload dir: %w", err)
	}
	return local, local.Dir(), nil
}

func newPublisher(logger *log.Logger, hub *api.Hub) *events.MultiPublisher {
	publishers := []events.Publisher{events.NewHubPublisher(hub)}

	if brokers := events.ParseKafkaBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kp, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:  brokers,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
			CACert:   cfg.KafkaCACert,
		}, logger)
		if err != nil {
			logger.Printf("⚠️ Kafka отключена: %v", err)
		} else {
			publishers = append(publishers, kp)
		}
	}

	if cfg.RabbitMQURL != "" {
		ap, err := events.NewAMQPPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Printf("⚠️ RabbitMQ отключен: %v", err)
		} else {
			publishers = append(publishers, ap)
		}
	}

	multi := events.NewMultiPublisher(logger, publishers...)
	logger.Printf("📣 Публикация событий каталога: %d получателей", multi.Len())
	return multi
}

func startGRPCHealth(ctx context.Context, db *gorm.DB, logger *log.Logger) *api.GRPCHealth {
	if cfg.GRPCPort == "" {
		return nil
	}
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Printf("⚠️ gRPC health не запущен: %v", err)
		return nil
	}
	health := api.NewGRPCHealth(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, logger)
	go health.Watch(ctx, 15*time.Second)
	go func() {
		if err := health.Serve(lis); err != nil {
			logger.Printf("❌ gRPC health сервер остановлен: %v", err)
		}
	}()
	return health
}

// maskDatabaseURL скрывает пароль перед выводом в лог
func maskDatabaseURL(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 {
		return url
	}
	creds := url[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return url[:scheme+3] + creds[:colon] + ":***" + url[at:]
	}
	return url
}
