// Package main is the entry point for the event report webhook server.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hfn-events/event-report-bot/internal/config"
	"github.com/hfn-events/event-report-bot/internal/dialogue"
	"github.com/hfn-events/event-report-bot/internal/handler"
	"github.com/hfn-events/event-report-bot/internal/middleware"
	natsclient "github.com/hfn-events/event-report-bot/internal/nats"
	"github.com/hfn-events/event-report-bot/internal/normalize"
	"github.com/hfn-events/event-report-bot/internal/persistence"
	"github.com/hfn-events/event-report-bot/internal/places"
	"github.com/hfn-events/event-report-bot/internal/record"
	"github.com/hfn-events/event-report-bot/internal/service"
	"github.com/hfn-events/event-report-bot/internal/session"
	"github.com/hfn-events/event-report-bot/pkg/logger"
	"github.com/hfn-events/event-report-bot/pkg/tracing"
)

const serviceName = "event-report-bot"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting webhook server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, serviceName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Durable record store
	store, err := persistence.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer store.Close(context.Background())

	// Analytics mirrors
	var mirrors []persistence.Mirror
	if cfg.WarehouseDSN != "" {
		warehouse, err := persistence.OpenWarehouse(cfg.WarehouseDSN, cfg.WarehouseTable, log)
		if err != nil {
			log.Fatal("failed to open warehouse", zap.Error(err))
		}
		defer warehouse.Close()
		if err := warehouse.EnsureTable(ctx); err != nil {
			log.Fatal("failed to ensure warehouse table", zap.Error(err))
		}
		mirrors = append(mirrors, warehouse)
	}

	var natsClient *natsclient.Client
	if cfg.NATSMirrorEnabled {
		natsClient, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()

		streamManager := natsclient.NewStreamManager(natsClient)
		if err := streamManager.EnsureStream(ctx); err != nil {
			log.Fatal("failed to ensure stream", zap.Error(err))
		}
		mirrors = append(mirrors, persistence.NewStreamMirror(streamManager))
	}

	gateway := persistence.NewGateway(store, mirrors, persistence.NewIdempotencyCache(cfg.IdempotencyTTL), persistence.Config{
		MirrorRetries: cfg.MirrorMaxRetries,
		MirrorTimeout: cfg.MirrorTimeout,
	}, log)

	// Conversation state
	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		log.Info("REDIS_URL not set, keeping conversations in memory")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// Normalization and record assembly
	var directory *places.Directory
	if cfg.PlacesFile != "" {
		directory, err = places.LoadFile(cfg.PlacesFile, cfg.PlaceMatchThreshold)
	} else {
		directory, err = places.Default(cfg.PlaceMatchThreshold)
	}
	if err != nil {
		log.Fatal("failed to load places", zap.Error(err))
	}

	normalizer := normalize.New(cfg.Location(), time.Now)
	assembler := record.NewAssembler(directory, normalizer, nil, nil)

	controller := dialogue.NewController(normalizer, directory, assembler, gateway,
		dialogue.WithLifespan(cfg.ContextLifespan),
		dialogue.WithLogger(log),
	)

	// Initialize services
	conversationSvc := service.NewConversationService(controller, sessions, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(store, natsClient)
	webhookHandler := handler.NewWebhookHandler(conversationSvc, log)
	sessionHandler := handler.NewSessionHandler(conversationSvc, log)

	authEnabled := cfg.JWTSecret != ""
	if !authEnabled {
		log.Warn("WEBHOOK_JWT_SECRET not set, webhook authentication disabled")
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Fulfillment webhook
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RequireScope(middleware.ScopeFulfill, authEnabled))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		r.Post("/webhook", webhookHandler.Fulfill)
	})

	// Admin routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RequireScope(middleware.ScopeSessions, authEnabled))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Reset)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Let in-flight mirror writes finish before the stores close.
	if err := gateway.Close(shutdownCtx); err != nil {
		log.Warn("mirror writes still pending at shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
