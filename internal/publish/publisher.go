// Package publish mirrors the pages under a source container into the posts
// directory, one Markdown file per page.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notion2hugo/internal/block"
	"github.com/starford/notion2hugo/internal/catalog"
	"github.com/starford/notion2hugo/internal/checksum"
	"github.com/starford/notion2hugo/internal/frontmatter"
	"github.com/starford/notion2hugo/internal/models"
	"github.com/starford/notion2hugo/internal/storage"
)

// ErrNoFilename is returned for titles that sanitize to an empty file name.
var ErrNoFilename = errors.New("title has no usable file name characters")

// Source provides block trees.
type Source interface {
	FetchBlockTree(ctx context.Context, id string) (block.Block, error)
}

// Publisher writes posts fetched from a Source into a storage.Provider.
type Publisher struct {
	source  Source
	store   storage.Provider
	catalog catalog.Catalog
	workers int
	logger  *slog.Logger
}

// Option is a functional option for configuring the publisher.
type Option func(*Publisher)

// WithWorkers bounds how many posts are encoded and written at once.
func WithWorkers(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = l
	}
}

// New creates a publisher.
func New(source Source, store storage.Provider, cat catalog.Catalog, opts ...Option) *Publisher {
	p := &Publisher{
		source:  source,
		store:   store,
		catalog: cat,
		workers: 4,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type job struct {
	path string
	post models.Post
}

// Run publishes every titled page directly under rootID. Failing to list
// the posts directory or to fetch the tree aborts the run; failures of
// single posts are collected in the report and returned joined.
func (p *Publisher) Run(ctx context.Context, rootID string) (Report, error) {
	var report Report

	loaded, err := catalog.Load(p.catalog, p.store, p.logger)
	if err != nil {
		return report, fmt.Errorf("publish: load existing posts: %w", err)
	}
	if stats, err := p.catalog.Stats(); err == nil {
		p.logger.Info("Existing posts loaded",
			slog.Int("loaded", loaded),
			slog.Int("published", stats.Published),
			slog.Int("drafts", stats.Drafts))
	}

	tree, err := p.source.FetchBlockTree(ctx, rootID)
	if err != nil {
		return report, fmt.Errorf("publish: fetch source tree: %w", err)
	}

	jobs := p.plan(tree, &report)

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			written, err := p.publish(j)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				p.logger.Error("publish failed",
					slog.String("title", j.post.Title),
					slog.String("path", j.path),
					slog.String("error", err.Error()))
				report.Failures = append(report.Failures, Failure{Title: j.post.Title, Path: j.path, Err: err})
			case written:
				p.logger.Info("post written", slog.String("path", j.path))
				report.Written = append(report.Written, j.path)
			default:
				p.logger.Debug("post unchanged", slog.String("path", j.path))
				report.Unchanged = append(report.Unchanged, j.path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("publish: %w", err)
	}

	sort.Strings(report.Written)
	sort.Strings(report.Unchanged)
	sort.Slice(report.Failures, func(i, k int) bool { return report.Failures[i].Title < report.Failures[k].Title })

	return report, report.Err()
}

// plan builds posts in document order and assigns file names. The first
// post to claim a file name keeps it.
func (p *Publisher) plan(tree block.Block, report *Report) []job {
	claimed := make(map[string]string)
	var jobs []job
	for _, child := range tree.Children() {
		post, ok := BuildPost(child)
		if !ok {
			p.logger.Debug("skipping block",
				slog.String("kind", string(child.Kind())),
				slog.String("id", child.Attributes().ID))
			report.Skipped++
			continue
		}

		path := storage.PostPath(post.Title)
		if path == "" {
			report.Failures = append(report.Failures, Failure{Title: post.Title, Err: ErrNoFilename})
			continue
		}
		if kept, ok := claimed[path]; ok {
			p.logger.Warn("file name collision",
				slog.String("path", path),
				slog.String("title", post.Title),
				slog.String("kept_title", kept))
			report.Collisions = append(report.Collisions, Collision{Path: path, Title: post.Title, KeptTitle: kept})
			continue
		}
		claimed[path] = post.Title

		if prev, err := p.catalog.PathForSource(post.SourceID); err == nil && prev != "" && prev != path {
			p.logger.Info("post previously published under another name",
				slog.String("path", path),
				slog.String("previous_path", prev))
		}
		jobs = append(jobs, job{path: path, post: post})
	}
	return jobs
}

// publish encodes and writes one post. It reports false when the file on
// disk already has the same content.
func (p *Publisher) publish(j job) (bool, error) {
	content, err := frontmatter.Encode(j.post)
	if err != nil {
		return false, err
	}
	sum := checksum.SumString(content)

	existing, err := p.catalog.Checksum(j.path)
	if err != nil {
		return false, err
	}
	if existing == sum {
		return false, nil
	}

	if err := p.store.Write(j.path, []byte(content)); err != nil {
		return false, err
	}
	err = p.catalog.Upsert(models.PostMeta{
		Path:     j.path,
		Title:    j.post.Title,
		Date:     j.post.Date,
		Draft:    j.post.Draft,
		SourceID: j.post.SourceID,
		Checksum: sum,
	})
	return true, err
}
