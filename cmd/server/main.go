package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/park1112/next-snp-management-sub002/config"
	"github.com/park1112/next-snp-management-sub002/internal/app/controller"
	"github.com/park1112/next-snp-management-sub002/internal/app/repository"
	"github.com/park1112/next-snp-management-sub002/internal/app/service"
	"github.com/park1112/next-snp-management-sub002/internal/db"
	"github.com/park1112/next-snp-management-sub002/internal/docstore"
	"github.com/park1112/next-snp-management-sub002/internal/identity"
	"github.com/park1112/next-snp-management-sub002/internal/middleware"
	"github.com/park1112/next-snp-management-sub002/internal/router"
	"github.com/park1112/next-snp-management-sub002/internal/scheduler"
	"github.com/park1112/next-snp-management-sub002/internal/storage"
	"github.com/park1112/next-snp-management-sub002/internal/websocket"
	"github.com/park1112/next-snp-management-sub002/pkg/logger"
	"github.com/park1112/next-snp-management-sub002/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting SNP management server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"docstore":    cfg.DocStore.Backend,
	})

	// 로그인 계정은 항상 관계형 DB
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, closeStore, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("Failed to open document store", err)
	}
	defer closeStore()

	// 토큰 폐기 목록: Redis 가 없으면 프로세스 메모리
	var blacklist redis.Blacklist = redis.NewMemoryBlacklist()
	if cfg.Redis.Enabled {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory token blacklist", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			redisBlacklist := redis.NewRedisBlacklist(client)
			defer redisBlacklist.Close()
			blacklist = redisBlacklist
		}
	}

	var files storage.FileStorage
	if cfg.S3.Bucket != "" {
		files = storage.NewS3Storage(context.Background(), &cfg.S3)
	}

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	actors := identity.ContextProvider{}

	// Initialize services
	authService := service.NewAuthService(
		repository.NewUserRepository(db.GetDB()),
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	categoryService := service.NewCategoryService(store, actors)
	scheduleService := service.NewScheduleService(store, actors, hub)
	contractService := service.NewContractService(store, actors, hub)
	paymentService := service.NewPaymentService(store, actors, hub)
	lookupCache := service.NewLookupCache(store, hub)

	if _, err := lookupCache.Refresh(context.Background()); err != nil {
		logger.Warn("Initial lookup load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if cfg.Reminder.Enabled {
		reminders := scheduler.NewDueReminderScheduler(
			contractService,
			hub,
			cfg.Reminder.Spec,
			time.Duration(cfg.Reminder.WindowDay)*24*time.Hour,
		)
		if err := reminders.Start(); err != nil {
			logger.Error("Failed to start due reminder scheduler", err)
		} else {
			defer reminders.Stop()
		}
	}

	// Initialize controllers
	controllers := router.Controllers{
		Auth:      controller.NewAuthController(authService),
		Category:  controller.NewCategoryController(categoryService),
		Schedule:  controller.NewScheduleController(scheduleService),
		Contract:  controller.NewContractController(contractService),
		Payment:   controller.NewPaymentController(paymentService, service.NewExportService(store), files),
		Directory: controller.NewDirectoryController(service.NewDirectoryService(store, actors)),
		Lookup:    controller.NewLookupController(service.NewLookupService(store, actors), lookupCache),
		Dashboard: controller.NewDashboardController(service.NewDashboardService(store)),
		Upload:    controller.NewUploadController(files, paymentService),
		Events:    controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

// openStore picks the document backend. gorm keeps documents in the same
// database as the users table.
func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, func(), error) {
	if cfg.DocStore.Backend != "mongo" {
		return docstore.NewGormStore(db.GetDB()), func() {}, nil
	}

	client, err := docstore.ConnectMongo(ctx, cfg.DocStore.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	store := docstore.NewMongoStore(client, cfg.DocStore.MongoDatabase)
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("Failed to disconnect mongo", err)
		}
	}
	return store, closeFn, nil
}
