// Command sheet renders one order's production sheet from the command
// line. It reads the same configuration as the server.
//
//	sheet -order 42 -format pdf -out so-42.pdf
//	sheet -order 42 -format share
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prodsheet/backend/internal/application/orderview"
	"github.com/prodsheet/backend/internal/bootstrap"
	"github.com/prodsheet/backend/internal/infrastructure/config"
	"github.com/prodsheet/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	formatView  = "view"
	formatHTML  = "html"
	formatPDF   = "pdf"
	formatShare = "share"
)

type options struct {
	orderID string
	format  string
	out     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "sheet:", err)
		}
		os.Exit(1)
	}
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.orderID, "order", "", "order ID (required)")
	fs.StringVar(&opts.format, "format", formatHTML, "output: view, html, pdf or share")
	fs.StringVar(&opts.out, "out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.orderID == "" {
		fs.Usage()
		return opts, errors.New("-order is required")
	}
	switch opts.format {
	case formatView, formatHTML, formatPDF, formatShare:
	default:
		return opts, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.format == formatPDF && opts.out == "" {
		return opts, errors.New("-out is required for pdf output")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	// stdout carries the document
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync(log)

	// The CLI only renders PDFs when asked to
	if opts.format != formatPDF {
		cfg.Renderer.Enabled = false
	}
	app, err := bootstrap.New(ctx, cfg, nil, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}()

	data, err := render(ctx, app.Presenter, opts)
	if err != nil {
		if le, ok := orderview.AsLoadError(err); ok {
			return fmt.Errorf("%s: %w", le.Notice, err)
		}
		return err
	}

	if opts.out == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	log.Info("sheet written", zap.String("path", opts.out), zap.Int("bytes", len(data)))
	return nil
}

func render(ctx context.Context, p *orderview.Presenter, opts options) ([]byte, error) {
	switch opts.format {
	case formatView:
		view, err := p.View(ctx, opts.orderID)
		if err != nil {
			return nil, err
		}
		return marshal(view)
	case formatPDF:
		doc, err := p.ExportPDF(ctx, opts.orderID)
		if err != nil {
			return nil, err
		}
		return doc.Data, nil
	case formatShare:
		link, err := p.Share(ctx, opts.orderID)
		if err != nil {
			return nil, err
		}
		return marshal(link)
	default:
		doc, err := p.SheetHTML(ctx, opts.orderID)
		if err != nil {
			return nil, err
		}
		return []byte(doc.HTML), nil
	}
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
