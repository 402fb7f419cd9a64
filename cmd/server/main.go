package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/tle-advisor/internal/config"
	"github.com/benvon/tle-advisor/internal/curated"
	"github.com/benvon/tle-advisor/internal/handlers"
	"github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/middleware"
	"github.com/benvon/tle-advisor/internal/services/ai"
	"github.com/benvon/tle-advisor/internal/services/analysis"
	"github.com/benvon/tle-advisor/internal/services/codeforces"
	"github.com/benvon/tle-advisor/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(cfg.LogFormat, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("codeforces_url", cfg.CodeforcesURL),
		zap.String("ai_provider", cfg.AIProvider),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	otelActive := false
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(context.Background(), telemetry.Config{
			ServiceName:    telemetry.ServiceName,
			ServiceVersion: version,
			Endpoint:       cfg.OTELEndpoint,
		})
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			otelActive = true
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

	catalog, err := curated.Load(cfg.CuratedProblemsPath)
	if err != nil {
		zapLogger.Fatal("failed_to_load_curated_problems",
			zap.String("path", logger.SanitizePath(cfg.CuratedProblemsPath)),
			zap.Error(err),
		)
	}
	zapLogger.Info("curated_problems_loaded", zap.Int("tags", catalog.Len()))

	cfClient := codeforces.NewClient(cfg.CodeforcesURL, cfg.CodeforcesTimeout, zapLogger)
	analyzer := analysis.NewService(cfClient, catalog,
		analysis.WithWeakThreshold(cfg.WeakTopicThreshold),
		analysis.WithSuggestionsPerTag(cfg.SuggestionsPerTag),
		analysis.WithLogger(zapLogger),
	)

	aiProvider := createAIProvider(context.Background(), cfg, zapLogger, debugMode)

	r := newRouter(routerDeps{
		cfg:        cfg,
		logger:     zapLogger,
		analyzer:   analyzer,
		problemset: cfClient,
		catalog:    catalog,
		provider:   aiProvider,
		health:     handlers.NewHealthChecker(map[string]handlers.Pinger{"codeforces": cfClient}),
		tracing:    otelActive,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("server_exited")
}

type routerDeps struct {
	cfg        *config.Config
	logger     *zap.Logger
	analyzer   handlers.Analyzer
	problemset handlers.ProblemsetSource
	catalog    *curated.Catalog
	provider   ai.AIProvider
	health     *handlers.HealthChecker
	tracing    bool
}

// newRouter wires the middleware chain and every route. gorilla/mux runs the
// first registered middleware outermost.
func newRouter(d routerDeps) *mux.Router {
	r := mux.NewRouter()

	if d.tracing {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.ErrorHandler(d.logger))
	r.Use(middleware.Logging(d.logger))
	r.Use(middleware.Audit(d.logger))
	r.Use(middleware.CORS(d.cfg.AllowedOrigins(), d.logger))
	r.Use(middleware.SecurityHeaders(d.cfg.EnableHSTS))
	r.Use(middleware.Timeout(d.cfg.RequestTimeout))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)

	r.HandleFunc("/healthz", d.health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", handlers.VersionInfo(version)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	handlers.NewAnalysisHandler(d.analyzer, d.logger).RegisterRoutes(api)
	handlers.NewAdviceHandler(d.provider, d.logger).RegisterRoutes(api)
	handlers.NewProblemsetHandler(d.problemset, d.logger).RegisterRoutes(api)
	handlers.NewCuratedHandler(d.catalog).RegisterRoutes(api)
	handlers.NewOpenAPIHandler(d.cfg.OpenAPIPath).RegisterRoutes(api)

	// Preflight requests need a matching route for the middleware chain to run
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// createAIProvider builds the configured provider. Advice requests answer 500 when it returns nil.
func createAIProvider(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, debugMode bool) ai.AIProvider {
	provider, err := ai.DefaultRegistry().GetProvider(ctx, cfg.AIProvider, ai.ProviderConfig{
		APIKey:    cfg.APIKey(),
		BaseURL:   cfg.AIBaseURL,
		Model:     cfg.AIModel,
		Timeout:   cfg.AITimeout(),
		Logger:    zapLogger,
		DebugMode: debugMode,
	})
	if err != nil {
		zapLogger.Warn("ai_provider_unavailable_advice_disabled",
			zap.String("ai_provider", cfg.AIProvider),
			zap.Error(err),
		)
		return nil
	}
	zapLogger.Info("ai_provider_initialized", zap.String("ai_provider", provider.Name()))
	return provider
}
