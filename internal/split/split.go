package split

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thywilljoshua/pdf-split/internal/export"
	"github.com/thywilljoshua/pdf-split/internal/outline"
	"github.com/thywilljoshua/pdf-split/internal/pdfdoc"
	"github.com/thywilljoshua/pdf-split/internal/sections"
)

// BuildPlan reads the outline of data and computes its section tree. A
// document without bookmarks fails with outline.ErrMissingOutline before
// anything is built.
func BuildPlan(ctx context.Context, data []byte, cfg Config) (*Plan, error) {
	p, _, err := buildPlan(ctx, data, cfg)
	return p, err
}

func buildPlan(ctx context.Context, data []byte, cfg Config) (*Plan, *pdfdoc.Document, error) {
	log := logger(cfg)
	if cfg.MaxLevel < 0 {
		return nil, nil, fmt.Errorf("max level must be >= 0, got %d", cfg.MaxLevel)
	}

	log.Info("loading pdf", "bytes", len(data))
	doc, err := pdfdoc.Open(data)
	if err != nil {
		return nil, nil, err
	}
	items, err := doc.Outline()
	if err != nil {
		return nil, nil, err
	}
	entries, err := outline.Resolve(ctx, doc, items)
	if err != nil {
		return nil, nil, err
	}

	title := cfg.Title
	if title == "" {
		title = doc.Title()
	}
	log.Info("building sections",
		"title", title,
		"pages", doc.PageCount(),
		"bookmarks", outline.Count(entries),
		"outline_depth", outline.Depth(entries),
		"max_level", cfg.MaxLevel,
	)
	root := sections.FromOutline(title, entries, doc.PageCount(), cfg.MaxLevel)
	if err := sections.Verify(root, doc.PageCount()); err != nil {
		// Sibling bookmarks out of page order are not repaired.
		log.Warn("outline produced overlapping or missing ranges", "error", err)
	}

	if cfg.Enhancer != nil {
		root = normalizeTitles(ctx, cfg.Enhancer, root, log)
	}

	return &Plan{
		Title:        title,
		PageCount:    doc.PageCount(),
		OutlineDepth: outline.Depth(entries),
		MaxLevel:     cfg.MaxLevel,
		Root:         root,
	}, doc, nil
}

// Run splits data along its outline and hands one PDF per section to sink.
// Any failure aborts the whole run.
func Run(ctx context.Context, data []byte, cfg Config, sink export.Sink) (Result, error) {
	log := logger(cfg)
	start := time.Now()

	plan, doc, err := buildPlan(ctx, data, cfg)
	if err != nil {
		return Result{}, err
	}

	log.Info("generating sub-pdf files", "sections", sections.Count(plan.Root))
	tree, err := export.Materialize(ctx, doc, plan.Root, cfg.Concurrency)
	if err != nil {
		return Result{}, err
	}

	files := 0
	counted := export.SinkFunc(func(name string, b []byte) error {
		if err := sink.Emit(name, b); err != nil {
			return err
		}
		files++
		log.Debug("wrote file", "path", name, "bytes", len(b))
		return nil
	})
	log.Info("writing files")
	if err := export.Emit(tree, "", counted); err != nil {
		return Result{}, err
	}

	log.Info("done", "files", files, "duration_ms", time.Since(start).Milliseconds())
	return Result{
		Title:     plan.Title,
		PageCount: plan.PageCount,
		Sections:  sections.Count(plan.Root),
		Files:     files,
	}, nil
}

func logger(cfg Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
