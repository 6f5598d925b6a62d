package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/tbconrad/trailview/internal/annotstore"
	"github.com/tbconrad/trailview/internal/api"
	"github.com/tbconrad/trailview/internal/config"
	"github.com/tbconrad/trailview/internal/convert"
	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/graph"
	"github.com/tbconrad/trailview/internal/match"
	"github.com/tbconrad/trailview/internal/session"
	"github.com/tbconrad/trailview/internal/store"
	"github.com/tbconrad/trailview/internal/timeline"
)

func main() {
	cmd := &cli.Command{
		Name:  "trailview",
		Usage: "Derive graph, timeline, and section-match views from browsing-research session logs",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: runServe,
			},
			{
				Name:   "analyze",
				Usage:  "One-shot: analyze a session file (and optional reference document), print JSON",
				Action: runAnalyze,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Path to a session JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "document",
						Aliases: []string{"d"},
						Usage:   "Path to a reference document (html, md, docx, pdf)",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var annot *annotstore.Client
	if cfg.AnnotstoreURL != "" {
		annot = annotstore.NewClient(cfg.AnnotstoreURL, cfg.AnnotstoreAPIKey)
		defer annot.Close()
	}

	st := store.New(log, annot)
	srv := api.NewServer(st, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting trailview", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()

	data, err := os.ReadFile(cmd.String("session"))
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	sess, err := session.Parse(data)
	if err != nil {
		return err
	}

	var sections []document.Section
	if docPath := cmd.String("document"); docPath != "" {
		sections, err = loadDocument(docPath, cfg)
		if err != nil {
			return err
		}
	}

	out := map[string]any{
		"session": map[string]any{
			"id":   sess.ID,
			"name": sess.Name,
		},
		"graph":    graph.Build(sess),
		"timeline": timeline.Build(sess),
		"matches":  match.AssignSectionsToBestPages(sess.ContentPages, sections),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadDocument(path string, cfg config.Config) ([]document.Section, error) {
	filename := filepath.Base(path)
	conv, err := convert.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if pdfConv, ok := conv.(*convert.PDFConverter); ok {
		pdfConv.FallbackPdftotext = cfg.PDFFallbackPdftotext
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	html, err := conv.Convert(f, filename)
	if err != nil {
		return nil, fmt.Errorf("convert document: %w", err)
	}
	return document.Extract(html)
}
