package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"order_history/internal/config"
	"order_history/internal/database"
	"order_history/internal/handlers"
	"order_history/internal/redis"
	"order_history/internal/repository"
	"order_history/internal/services"
	"order_history/pkg/ordersapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	configureLogging(cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	// Initialize fetch audit log
	auditService := services.NopAuditService()
	if cfg.AuditEnabled() {
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		defer database.Close(db)
		auditService = services.NewAuditService(repository.NewFetchLogRepository(db))
	} else {
		log.Info("DATABASE_URL not set, fetch audit log disabled")
	}

	// Initialize orders API client
	ordersClient := ordersapi.NewClient(cfg.OrdersAPIURL, cfg.OrdersAPITimeout)

	// Initialize services
	orderService := services.NewOrderService(ordersClient, auditService)
	views := services.NewViewRegistry(cfg.ViewTTL)
	go views.Run(ctx, time.Minute)

	// Initialize handlers
	ordersHandler := handlers.NewOrdersHandler(
		orderService,
		views,
		redisClient,
		cfg.SessionKey,
		cfg.CurrencySymbol,
		cfg.OrdersAPITimeout+5*time.Second,
	)
	apiHandler := handlers.NewAPIHandler(redisClient, auditService, cfg.SessionKey, cfg.SessionTTL)

	// Setup routes
	router, err := handlers.NewRouter(handlers.RouterConfig{SecureCookies: cfg.CookieSecure}, ordersHandler, apiHandler)
	if err != nil {
		log.Fatal("Failed to build router: ", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.Infof("Server starting on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
	log.Info("Server stopped")
}

func configureLogging(cfg *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
