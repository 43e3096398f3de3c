// Package bootstrap assembles the presenter and its infrastructure from
// configuration. The server and the sheet CLI share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/prodsheet/backend/internal/application/orderview"
	domainprinting "github.com/prodsheet/backend/internal/domain/printing"
	"github.com/prodsheet/backend/internal/infrastructure/cache"
	"github.com/prodsheet/backend/internal/infrastructure/config"
	"github.com/prodsheet/backend/internal/infrastructure/orderapi"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"github.com/prodsheet/backend/internal/infrastructure/storage"
	"github.com/prodsheet/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// App holds the wired components. Close releases them.
type App struct {
	Presenter *orderview.Presenter
	Client    *orderapi.Client
	Metrics   *telemetry.Metrics
	Renderer  printing.PDFRenderer
	Cache     cache.PDFCache
	Archive   printing.Archive

	log *zap.Logger
}

// New wires the presenter described by cfg. metrics may be nil.
func New(ctx context.Context, cfg *config.Config, metrics *telemetry.Metrics, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Metrics: metrics, log: log}

	client, err := orderapi.NewClient(orderapi.Config{
		BaseURL:   cfg.Backend.BaseURL,
		PublicURL: cfg.Backend.PublicURL,
		AuthToken: cfg.Backend.AuthToken,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: cfg.App.Name,
	}, orderapi.WithLogger(log.Named("orderapi")))
	if err != nil {
		return nil, fmt.Errorf("order backend client: %w", err)
	}
	a.Client = client

	generator, err := NewGenerator(cfg, log)
	if err != nil {
		return nil, err
	}

	a.Renderer = NewRenderer(cfg, log)

	a.Cache, err = cache.NewPDFCache(ctx, cache.Options{
		Driver:     cfg.Cache.Driver,
		MaxEntries: cfg.Cache.MaxEntries,
		Redis: cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		AllowFallback: cfg.Cache.AllowFallback,
		Logger:        log,
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("pdf cache: %w", err)
	}

	a.Archive, err = storage.NewArchive(ctx, &cfg.Storage, log)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("sheet archive: %w", err)
	}

	a.Presenter = orderview.NewPresenter(client, generator,
		orderview.WithRenderer(a.Renderer),
		orderview.WithCache(a.Cache),
		orderview.WithArchive(a.Archive),
		orderview.WithMetrics(metrics),
		orderview.WithLogger(log.Named("orderview")),
		orderview.WithConfig(orderview.Config{
			OrderListURL:    cfg.App.OrderListURL,
			OrderBasePath:   cfg.App.OrderBasePath,
			ShareTitle:      cfg.Share.Title,
			WhatsAppBaseURL: cfg.Share.WhatsAppBaseURL,
			PDFCacheTTL:     cfg.Cache.TTL,
		}),
	)

	log.Info("presenter ready",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("pdf_renderer", cfg.Renderer.Enabled),
		zap.String("cache", cfg.Cache.Driver),
		zap.String("storage", cfg.Storage.Driver))
	return a, nil
}

// NewGenerator builds the sheet generator from the sheet settings.
func NewGenerator(cfg *config.Config, log *zap.Logger) (*printing.SheetGenerator, error) {
	paper, err := domainprinting.ParsePaperSize(cfg.Sheet.Paper)
	if err != nil {
		return nil, err
	}
	page := domainprinting.SheetPageSetup()
	page.Paper = paper

	return printing.NewSheetGenerator(printing.NewTemplateEngine(), printing.SheetOptions{
		Brand:            printing.Branding{Name: cfg.Sheet.Brand, LogoURL: cfg.Sheet.LogoURL},
		Policy:           cfg.Sheet.Sizing,
		Page:             page,
		PrintDelayMS:     int(cfg.Sheet.PrintDelay.Milliseconds()),
		DisableAutoPrint: !cfg.Sheet.AutoPrint,
	}, log.Named("sheet"))
}

// NewRenderer returns the chromedp renderer, or a disabled one.
func NewRenderer(cfg *config.Config, log *zap.Logger) printing.PDFRenderer {
	if !cfg.Renderer.Enabled {
		return printing.DisabledRenderer{}
	}
	return printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Renderer.Timeout,
		RemoteURL:      cfg.Renderer.RemoteURL,
		ExecPath:       cfg.Renderer.ExecPath,
		NoSandbox:      cfg.Renderer.NoSandbox,
		BaseURL:        cfg.Renderer.AssetBaseURL,
		ImageWait:      cfg.Renderer.ImageWait,
		Logger:         log,
	})
}

// Close shuts the renderer and the cache down.
func (a *App) Close() error {
	var errs []error
	if a.Renderer != nil {
		if err := a.Renderer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close renderer: %w", err))
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	return errors.Join(errs...)
}
