package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/storelaunch/storelaunch/configs"
	"github.com/storelaunch/storelaunch/internal/application/services"
	"github.com/storelaunch/storelaunch/internal/core/ports"
	"github.com/storelaunch/storelaunch/internal/infrastructure/db"
	"github.com/storelaunch/storelaunch/internal/infrastructure/email"
	"github.com/storelaunch/storelaunch/internal/infrastructure/health"
	"github.com/storelaunch/storelaunch/internal/infrastructure/httpserver"
	"github.com/storelaunch/storelaunch/internal/infrastructure/redis"
	"github.com/storelaunch/storelaunch/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting StoreLaunch API...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Redis-backed repositories
	tokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)
	redisCache := redis.NewRedisCache(redisClient, "storelaunch")

	// Rate limit counters: Redis is the shared store for multi-instance
	// deployments; memory works when a single instance fronts all traffic.
	var rateLimitStore ports.RateLimitStore
	if cfg.RateLimit.Store == "memory" {
		rateLimitStore = repositories.NewRateLimitMemoryRepository()
	} else {
		rateLimitStore = repositories.NewRateLimitRedisRepository(redisClient)
	}

	// Database repositories, users decorated with a read-through cache
	baseUserRepo := repositories.NewUserRepository(database, logger)
	userRepo := repositories.NewCachingUserRepository(baseUserRepo, redisCache, 3*time.Minute)
	storeRepo := repositories.NewStoreRepository(database, logger)

	// Email
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
		BaseURL:        cfg.Email.BaseURL,
	}
	emailService, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Services
	tokenService := services.NewTokenService(&cfg.JWT)
	lockoutService := services.NewLockoutService(&cfg.Lockout, logger)
	rateLimiterService := services.NewRateLimiterService(rateLimitStore, cfg.RateLimit.KeyPrefix, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, tokenService, lockoutService, emailService, logger)
	userService := services.NewUserService(userRepo, logger)
	storeService := services.NewStoreService(storeRepo, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		AuthService:    authService,
		TokenService:   tokenService,
		UserService:    userService,
		StoreService:   storeService,
		RateLimiter:    rateLimiterService,
		HealthCheckers: hcSlice,
	}

	server := httpserver.NewServer(serverConfig, &cfg.RateLimit, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
