// ==============================================================================
// EKYC API SERVICE MAIN - cmd/ekyc/main.go
// ==============================================================================
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ekyc/internal/ekyc"
	"ekyc/internal/handler"
	"ekyc/internal/middleware"
	"ekyc/internal/notification"
	"ekyc/internal/repository/postgres"
	"ekyc/pkg/cache"
	"ekyc/pkg/config"
	"ekyc/pkg/logger"
	"ekyc/pkg/validator"
)

func main() {
	cfg := config.Load()
	log := logger.NewWithLevel("ekyc-service", logger.ParseLevel(cfg.LogLevel), os.Stdout)

	if err := cfg.ValidateCore(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Starting eKYC Service", map[string]interface{}{
		"port":        cfg.Server.Port,
		"environment": cfg.Environment,
	})

	// Database connection
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	log.Info("Database connected", nil)

	// Redis connection
	scoreCache, err := cache.NewRedisCache(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	defer scoreCache.Close()
	redisClient := scoreCache.Client()
	log.Info("Redis connected", nil)

	// Kafka publisher for EMAIL/SMS notifications
	publisher := notification.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
	if publisher == nil {
		log.Warn("KAFKA_BROKERS not set; email and sms notifications will not be published", nil)
	}
	defer publisher.Close()

	// Repositories
	ekycRepo := postgres.NewEKYCRepository(db)
	userRepo := postgres.NewUserRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Services
	hub := notification.NewHub()
	var pub notification.Publisher
	if publisher != nil {
		pub = publisher
	}
	notificationService := notification.NewService(notificationRepo, hub, pub, log)

	ekycService := ekyc.NewService(
		ekycRepo,
		userRepo,
		notificationService,
		scoreCache,
		ekyc.SystemClock{},
		ekyc.Config{
			VerifiedThreshold: cfg.Scoring.ProfileVerifiedThreshold,
			NotifyTimeout:     cfg.Notification.Timeout,
			ScoreCacheTTL:     cfg.Scoring.ScoreCacheTTL,
		},
		log,
	)

	// Handlers
	val := validator.New()
	routes := handler.Routes{
		EKYC:          handler.NewEKYCHandler(ekycService, val, log),
		Admin:         handler.NewAdminHandler(ekycService, val, log),
		Notifications: handler.NewNotificationHandler(notificationService, hub, cfg.Server.AllowedOrigins, log),
		System:        handler.NewSystemHandler(db, redisClient, log),
		Idempotent:    middleware.NewIdempotencyMiddleware(redisClient, 24*time.Hour, log).Handle,
	}

	// Router
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.NewAuthMiddleware(cfg.JWT.Secret).Authenticate)
	api.Use(middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, log).Limit)

	routes.Register(r, api)

	// Wrapped outside the router so preflight and unmatched requests are covered.
	var h http.Handler = r
	h = middleware.SecurityHeaders(h)
	h = middleware.CORS(cfg.Server.AllowedOrigins)(h)
	h = middleware.NewLoggingMiddleware(log).Log(h)
	h = middleware.CorrelationID(h)
	h = middleware.Recovery(log)(h)

	// WriteTimeout stays zero so websocket streams are not cut off; handlers
	// bound their own work through the request context.
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:     h,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info("eKYC service started", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down eKYC service...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("eKYC service forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("eKYC service stopped gracefully", nil)
}
