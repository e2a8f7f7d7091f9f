package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/hieudev/todo-api/internal/config"
	"github.com/hieudev/todo-api/internal/database"
	"github.com/hieudev/todo-api/internal/features"
	"github.com/hieudev/todo-api/internal/handlers"
	"github.com/hieudev/todo-api/internal/logger"
	"github.com/hieudev/todo-api/internal/middleware"
	"github.com/hieudev/todo-api/internal/service"
	"github.com/hieudev/todo-api/internal/telemetry"
)

const serviceName = "todo-api"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
		zap.Bool("seed_enabled", cfg.SeedEnabled),
	)

	// Initialize OpenTelemetry if enabled
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	if err := db.EnsureSchema(context.Background()); err != nil {
		zapLogger.Fatal("failed_to_ensure_schema", zap.Error(err))
	}

	// Repositories and services
	todoRepo := database.NewTodoRepository(db)
	todoService := service.NewTodoService(todoRepo)

	if cfg.SeedEnabled {
		if err := database.SeedTodos(context.Background(), todoRepo, cfg.SeedCSVPath, zapLogger); err != nil {
			zapLogger.Warn("failed_to_seed_todos", zap.Error(err))
		}
	}

	// Feature flags: defaults from config, overlaid with persisted state
	flags := features.NewStore(cfg.FeatureDefaults, cfg.FlagPersistence, cfg.FlagStateFile, zapLogger)
	logReadme(flags, zapLogger)

	// Rate limiting: in-memory by default, Redis-backed when REDIS_URL is set
	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit, cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Handlers
	todoHandler := handlers.NewTodoHandler(todoService, flags, zapLogger)
	featureHandler := handlers.NewFeatureFlagHandler(flags)
	pingHandler := handlers.NewPingHandler(flags)
	healthChecker := handlers.NewHealthChecker(db)
	webHandler, err := handlers.NewWebHandler(todoService, flags, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_web_handler", zap.Error(err))
	}

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/ping", pingHandler.Ping).Methods("GET")

	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	// REST API routes: rate limited, JSON content type enforced on writes
	todosRouter := r.PathPrefix("/api/todos").Subrouter()
	todosRouter.Use(rateLimitMW)
	todosRouter.Use(middleware.JSONContentType)
	todoHandler.RegisterRoutes(todosRouter)

	featuresRouter := r.PathPrefix("/api/features").Subrouter()
	featuresRouter.Use(rateLimitMW)
	featureHandler.RegisterRoutes(featuresRouter)

	// Server-rendered web UI
	webHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// logReadme dumps the project README into the log at startup when the
// README_LOGGER flag is enabled.
func logReadme(flags *features.Store, zapLogger *zap.Logger) {
	if !flags.IsEnabled(features.FlagReadmeLogger) {
		return
	}

	content, err := os.ReadFile("README.md")
	if err != nil {
		zapLogger.Warn("readme_logger_enabled_but_readme_unreadable", zap.Error(err))
		return
	}

	fmt.Println(string(content))
	zapLogger.Info("readme_logged", zap.Int("bytes", len(content)))
}
