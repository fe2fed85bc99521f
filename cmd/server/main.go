package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "shipmarket-backend/internal/api/http"
	"shipmarket-backend/internal/cache"
	"shipmarket-backend/internal/config"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/repository/postgres"
	"shipmarket-backend/internal/security"
	"shipmarket-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Shipmarket Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.Email.SendGridAPIKey,
		cfg.Email.From,
		cfg.Email.FromName,
	)

	// Initialize Services
	validator := service.NewAvailabilityValidator(store.AvailabilityRepository)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.OfferRepository,
		store.ShipRepository,
		store.PortRepository,
		store.UserRepository,
		store.AvailabilityRepository,
		validator,
		emailSvc,
	)

	// Wrap the engine with the read-through cache unless disabled
	if cfg.Cache.Enabled {
		memCache := cache.NewMemory(cfg.Cache.CleanupInterval())
		defer memCache.Close()
		orderSvc = service.NewCachingOrderService(orderSvc, memCache, service.FreshnessPolicy{
			ActiveTTL:   cfg.Cache.ActiveTTL(),
			TerminalTTL: cfg.Cache.TerminalTTL(),
		})
		logger.Info("Read-through cache enabled",
			"active_ttl", cfg.Cache.ActiveTTL(),
			"terminal_ttl", cfg.Cache.TerminalTTL())
	}

	router := httpapi.NewRouter(orderSvc, tokenManager)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
