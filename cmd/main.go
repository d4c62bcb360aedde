package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/events"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/handler"
	mid "github.com/Priyansh-03/Vyapar-Sahayak/internal/middleware"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/repository"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/config"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/database"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "vyapar-sahayak"

func main() {
	// Load configuration
	appConfig, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting "+serviceName, appConfig.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", appConfig.DB.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.Store.SeedData {
		if err := repository.Seed(ctx, db, log); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	// Sale events go to RabbitMQ when configured
	var publisher events.Publisher = events.NopPublisher{}
	if appConfig.RabbitMQ.URL != "" {
		pool, err := events.NewChannelPool(appConfig.RabbitMQ.URL, appConfig.RabbitMQ.Queue, appConfig.RabbitMQ.PoolSize)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer pool.Close()
		publisher = events.NewRabbitPublisher(pool, appConfig.RabbitMQ.Queue)
	}

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware(appConfig.Metrics.ServiceName))

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	handler.New(db, publisher, appConfig.Store.GlobalLowStockThreshold).Register(e)

	// Start server
	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
