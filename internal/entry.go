// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"text/tabwriter"

	"github.com/starford/notion2hugo/internal/catalog"
	"github.com/starford/notion2hugo/internal/notion"
	"github.com/starford/notion2hugo/internal/publish"
	"github.com/starford/notion2hugo/internal/storage"
)

// Run mirrors the configured Notion pages into the posts directory.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := app.newLogger()
	logger.Info("Configuration loaded",
		slog.String("posts_dir", cfg.Hugo.PostsDir),
		slog.String("root_block", cfg.Notion.RootBlock),
		slog.Int("workers", cfg.App.Workers),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Hugo.PostsDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := catalog.Open(catalog.MemoryDSN)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	src := app.source
	if src == nil {
		src = notion.NewClient(cfg.Notion.Token,
			notion.WithBaseURL(cfg.Notion.BaseURL),
			notion.WithVersion(cfg.Notion.Version),
			notion.WithHTTPClient(&http.Client{Timeout: cfg.Notion.Timeout}),
			notion.WithRetries(cfg.Notion.Retries, notion.DefaultBackoff),
			notion.WithLogger(logger))
	}

	pub := publish.New(src, store, db,
		publish.WithWorkers(cfg.App.Workers),
		publish.WithLogger(logger))

	report, err := pub.Run(ctx, cfg.Notion.RootBlock)
	logger.Info("Publish finished",
		slog.Int("written", len(report.Written)),
		slog.Int("unchanged", len(report.Unchanged)),
		slog.Int("skipped", report.Skipped),
		slog.Int("collisions", len(report.Collisions)),
		slog.Int("failures", len(report.Failures)))
	if err != nil {
		logger.Error("Publish error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ListPosts prints the posts already present in the posts directory.
func ListPosts(ctx context.Context, w io.Writer, filter catalog.DraftFilter, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	if err := cfg.Hugo.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := app.newLogger()

	store, err := storage.NewFS(cfg.Hugo.PostsDir)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	db, err := catalog.Open(catalog.MemoryDSN)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	if _, err := catalog.Load(db, store, logger); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	posts, err := db.List(filter)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDRAFT\tTITLE\tPATH")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", p.Date.Format("2006-01-02"), p.Draft, p.Title, p.Path)
	}
	return tw.Flush()
}

// newLogger builds the structured JSON logger and installs it as default.
func (a *application) newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOut, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
