package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thywilljoshua/pdf-split/internal/sections"
)

// Document is a sub-document produced from a section's pages.
type Document interface {
	PageCount() int
	Serialize() ([]byte, error)
}

// Copier turns a list of 1-indexed source pages into a new document.
type Copier interface {
	CopyPages(ctx context.Context, pages []int, title string) (Document, error)
}

// Tree mirrors a section tree with the document built for each node. Doc is
// nil for sections that own no pages.
type Tree struct {
	Title    string
	Doc      Document
	Children []*Tree
}

// DefaultConcurrency bounds Materialize when the caller passes 0.
const DefaultConcurrency = 4

// Materialize copies the pages of every section into its own document.
// Copies run concurrently, at most concurrency at a time; the first error
// cancels the remaining copies and no tree is returned.
func Materialize(ctx context.Context, copier Copier, root sections.Section, concurrency int) (*Tree, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	tree := plant(g, gctx, copier, root)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tree, nil
}

// plant allocates the node for s and schedules its copy. Each goroutine
// writes only to its own node.
func plant(g *errgroup.Group, ctx context.Context, copier Copier, s sections.Section) *Tree {
	node := &Tree{Title: s.Title, Children: make([]*Tree, len(s.Children))}
	for i, c := range s.Children {
		node.Children[i] = plant(g, ctx, copier, c)
	}
	if len(s.Pages) == 0 {
		return node
	}
	pages, title := s.Pages, s.Title
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := copier.CopyPages(ctx, pages, title)
		if err != nil {
			return fmt.Errorf("copy pages %d-%d for %q: %w", pages[0], pages[len(pages)-1], title, err)
		}
		node.Doc = doc
		return nil
	})
	return node
}
