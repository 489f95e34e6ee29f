package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ultimator14/mini-pos/config"
	"github.com/Ultimator14/mini-pos/internal/catalog"
	"github.com/Ultimator14/mini-pos/pkg/db"
	"github.com/Ultimator14/mini-pos/pkg/logger"

	barH "github.com/Ultimator14/mini-pos/internal/bar/handler"
	barUCPkg "github.com/Ultimator14/mini-pos/internal/bar/usecase"
	orderH "github.com/Ultimator14/mini-pos/internal/order/handler"
	orderRepoPkg "github.com/Ultimator14/mini-pos/internal/order/repository"
	orderUCPkg "github.com/Ultimator14/mini-pos/internal/order/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	_ = godotenv.Load() // load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Load the catalog snapshot
	cat, err := catalog.Load(cfg.POS.CatalogFile)
	if err != nil {
		appLogger.Fatal("Could not load catalog", zap.Error(err))
	}
	appLogger.Info("Loaded catalog",
		zap.Int("tables", len(cat.Tables.Names)),
		zap.Int("products", len(cat.Products)),
		zap.Int("bars", len(cat.Bars)))

	// 4. Connect to database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.NewPostgres(ctx, &db.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer database.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if err := db.ApplySchema(ctx, database); err != nil {
		appLogger.Fatal("Could not apply schema", zap.Error(err))
	}

	// 5. Initialize repository, usecases, handlers
	repo := orderRepoPkg.NewPGRepository(database)
	orderUC := orderUCPkg.NewOrderUseCase(repo, cat, appLogger)
	barUC := barUCPkg.NewBarUseCase(repo, cat, appLogger)

	serviceHandler := orderH.NewServiceHandler(orderUC, cat, appLogger)
	barHandler := barH.NewBarHandler(orderUC, barUC, cat, appLogger)

	// 6. Build router
	if !logConfig.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(appLogger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "/service", "bar": "/bar"})
	})
	serviceHandler.Register(router)
	barHandler.Register(router)

	// 7. Start HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
