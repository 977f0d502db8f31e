package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/auromart/commerce-service/config"
	"github.com/auromart/commerce-service/pkg/cache"
	"github.com/auromart/commerce-service/pkg/database"
	"github.com/auromart/commerce-service/pkg/logger"
	"github.com/auromart/commerce-service/pkg/middleware"

	invH "github.com/auromart/commerce-service/internal/inventory/handler"
	invRepoPkg "github.com/auromart/commerce-service/internal/inventory/repository"
	invUCPkg "github.com/auromart/commerce-service/internal/inventory/usecase"

	orderH "github.com/auromart/commerce-service/internal/order/handler"
	orderRepoPkg "github.com/auromart/commerce-service/internal/order/repository"
	orderUCPkg "github.com/auromart/commerce-service/internal/order/usecase"

	partnerH "github.com/auromart/commerce-service/internal/partner/handler"
	partnerRepoPkg "github.com/auromart/commerce-service/internal/partner/repository"
	partnerUCPkg "github.com/auromart/commerce-service/internal/partner/usecase"

	prodH "github.com/auromart/commerce-service/internal/product/handler"
	prodRepoPkg "github.com/auromart/commerce-service/internal/product/repository"
	prodUCPkg "github.com/auromart/commerce-service/internal/product/usecase"

	userRepoPkg "github.com/auromart/commerce-service/internal/user/repository"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Apply Migrations
	if err := database.RunMigrations(&database.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	}, cfg.Migrations.Path); err != nil {
		appLogger.Fatal("Could not apply migrations", zap.Error(err))
	}

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 6. Initialize Repositories
	userRepo := userRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	partnerRepo := partnerRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	partnerUC := partnerUCPkg.NewPartnerUseCase(partnerRepo, userRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, partnerUC, redisClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, prodRepo, redisClient, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, invRepo, partnerUC, userRepo, appLogger)

	// 8. Router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.ActorContext)

	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(router)
	invH.NewInventoryHandler(invUC, appLogger).RegisterRoutes(router)
	orderH.NewOrderHandler(orderUC, appLogger).RegisterRoutes(router)
	partnerH.NewPartnerHandler(partnerUC, appLogger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
