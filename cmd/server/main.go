package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prodsheet/backend/internal/bootstrap"
	"github.com/prodsheet/backend/internal/infrastructure/config"
	"github.com/prodsheet/backend/internal/infrastructure/logger"
	"github.com/prodsheet/backend/internal/infrastructure/telemetry"
	"github.com/prodsheet/backend/internal/interfaces/http/handler"
	"github.com/prodsheet/backend/internal/interfaces/http/middleware"
	"github.com/prodsheet/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Production Sheet API
//	@version		1.0
//	@description	Read-only order summaries, printable production sheets, PDF export and WhatsApp share links

//	@host		localhost:8080
//	@BasePath	/api/v1

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting production sheet service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	otelProviders, err := telemetry.SetupTracing(context.Background(), telemetry.TracingConfig{
		Enabled:           cfg.Tracing.Enabled,
		CollectorEndpoint: cfg.Tracing.CollectorEndpoint,
		Insecure:          cfg.Tracing.Insecure,
		SamplingRatio:     cfg.Tracing.SamplingRatio,
		ExportLogs:        cfg.Tracing.ExportLogs,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			log.Warn("Failed to flush telemetry", zap.Error(err))
		}
	}()
	// Tee entries to the collector when log export is on
	log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelProviders.ZapCore(cfg.App.Name, logger.ParseLevel(cfg.Log.Level)))
	}))

	profiler, err := telemetry.StartProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.App.Name,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() { _ = profiler.Stop() }()
	if profiler.Enabled() {
		otelProviders.EnableSpanProfiles()
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		mcfg := telemetry.DefaultConfig()
		mcfg.Namespace = cfg.Metrics.Namespace
		mcfg.Path = cfg.Metrics.Path
		metrics = telemetry.New(mcfg)
	}

	app, err := bootstrap.New(context.Background(), cfg, metrics, log)
	if err != nil {
		log.Fatal("Failed to wire presenter", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	engine := newEngine(cfg, app, metrics, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

func newEngine(cfg *config.Config, app *bootstrap.App, metrics *telemetry.Metrics, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	// RequestID must run before tracing and the request logger read it
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.App.Name,
		SkipPaths:   []string{"/health", cfg.Metrics.Path},
	})...)
	engine.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		metrics.GinMiddleware(cfg.Metrics.Path, "/health"),
		middleware.CORSWithConfig(corsCfg),
		middleware.SecureWithConfig(security),
		middleware.Timeout(cfg.Renderer.Timeout+cfg.Backend.Timeout),
	)

	system := handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.Pinger{
		"order_backend": app.Client,
	})
	engine.GET("/health", system.Health)
	if metrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	routes := router.NewRouter(engine).
		Register(handler.NewOrderHandler(app.Presenter).Routes()).
		Register(system.Routes()).
		Setup()
	for _, route := range routes {
		log.Debug("Route registered", zap.String("route", route))
	}
	return engine
}
