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

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/controller"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	"github.com/ikkim/canteen-backend/internal/db"
	"github.com/ikkim/canteen-backend/internal/middleware"
	"github.com/ikkim/canteen-backend/internal/router"
	"github.com/ikkim/canteen-backend/internal/scheduler"
	"github.com/ikkim/canteen-backend/internal/storage"
	"github.com/ikkim/canteen-backend/pkg/logger"
	pkgredis "github.com/ikkim/canteen-backend/pkg/redis"
	"github.com/ikkim/canteen-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Server.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Canteen Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (기본 관리자 계정 포함)
	if err := db.Migrate(&cfg.Admin); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// 토큰 블랙리스트 (Redis 미사용 시 로그아웃은 클라이언트 측 처리)
	var revoker service.TokenRevoker
	var revocationChecker middleware.TokenRevocationChecker
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redisClient.Close()

		blacklist := pkgredis.NewTokenBlacklist(redisClient)
		revoker = blacklist
		revocationChecker = blacklist
	}

	// S3 는 버킷이 설정된 경우에만 사용
	var presigner storage.Presigner
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Fatal("Failed to initialize S3 storage", err)
		}
		presigner = s3Storage
	} else {
		logger.Warn("S3 bucket not configured, presigned uploads disabled")
	}

	database := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	itemRepo := repository.NewItemRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	codeRepo := repository.NewVerificationRepository(database)

	// Initialize services
	verificationService := service.NewVerificationService(codeRepo, userRepo, util.NewSMTPMailer(cfg.SMTP), cfg.Verification)
	authService := service.NewAuthService(
		database,
		userRepo,
		verificationService,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	storeService := service.NewStoreService(storeRepo)
	itemService := service.NewItemService(database, itemRepo, storeRepo)
	orderService := service.NewOrderService(database, orderRepo, storeRepo)
	commentService := service.NewCommentService(database, commentRepo, storeRepo)
	statsService := service.NewStatsService(userRepo, storeRepo, itemRepo, orderRepo, commentRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, verificationService)
	userController := controller.NewUserController(userService)
	storeController := controller.NewStoreController(storeService)
	itemController := controller.NewItemController(itemService)
	orderController := controller.NewOrderController(orderService)
	commentController := controller.NewCommentController(commentService)
	statsController := controller.NewStatsController(statsService)
	uploadController := controller.NewUploadController(presigner)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo, revocationChecker)

	// Background jobs
	cleanup := scheduler.NewVerificationCleanupScheduler(verificationService, cfg.Verification.CleanupSchedule)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start verification cleanup scheduler", err)
	}
	defer cleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		userController,
		storeController,
		itemController,
		orderController,
		commentController,
		statsController,
		uploadController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
