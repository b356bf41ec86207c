package outline

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingOutline is returned when a document carries no bookmarks.
	ErrMissingOutline = errors.New("no outline found, cannot proceed")
	// ErrUnresolvableDestination is returned when a bookmark target cannot be
	// mapped to a page.
	ErrUnresolvableDestination = errors.New("unresolvable destination")
)

// DefaultTitle is used when neither the bookmark nor its destination name
// carry anything printable.
const DefaultTitle = "Title"

type DestKind int

const (
	// DestNone marks a bookmark without a page target (URI actions etc).
	DestNone DestKind = iota
	// DestRef is an explicit page reference that only the lookup understands.
	DestRef
	// DestNamed is a named destination resolved through the document's
	// name tables.
	DestNamed
	// DestIndex is an already-known 0-indexed page.
	DestIndex
)

// Destination is where a bookmark points to.
type Destination struct {
	Kind  DestKind
	Ref   any
	Name  string
	Index int
}

// Item is a raw bookmark as read from the document.
type Item struct {
	Title    string
	Dest     Destination
	Children []Item
}

// Entry is a bookmark with its 1-indexed target page resolved.
type Entry struct {
	Title      string  `json:"title"`
	TargetPage int     `json:"target_page"`
	Children   []Entry `json:"children,omitempty"`
}

// Lookup maps a destination to its 0-indexed physical page.
type Lookup interface {
	PageIndex(ctx context.Context, dest Destination) (int, error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(ctx context.Context, dest Destination) (int, error)

func (f LookupFunc) PageIndex(ctx context.Context, dest Destination) (int, error) {
	return f(ctx, dest)
}

// Resolve maps every item, recursively, to an Entry. The first destination
// that cannot be resolved aborts the whole resolution.
func Resolve(ctx context.Context, lookup Lookup, items []Item) ([]Entry, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := resolveItem(ctx, lookup, it)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func resolveItem(ctx context.Context, lookup Lookup, it Item) (Entry, error) {
	title := ResolveTitle(it)
	idx, err := pageIndex(ctx, lookup, it.Dest)
	if err != nil {
		return Entry{}, fmt.Errorf("bookmark %q: %w", title, err)
	}
	kids, err := Resolve(ctx, lookup, it.Children)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Title: title, TargetPage: idx + 1, Children: kids}, nil
}

func pageIndex(ctx context.Context, lookup Lookup, d Destination) (int, error) {
	switch d.Kind {
	case DestIndex:
		if d.Index < 0 {
			return 0, fmt.Errorf("%w: negative page index %d", ErrUnresolvableDestination, d.Index)
		}
		return d.Index, nil
	case DestRef, DestNamed:
		if lookup == nil {
			return 0, ErrUnresolvableDestination
		}
		idx, err := lookup.PageIndex(ctx, d)
		if err != nil {
			if errors.Is(err, ErrUnresolvableDestination) {
				return 0, err
			}
			return 0, fmt.Errorf("%w: %v", ErrUnresolvableDestination, err)
		}
		if idx < 0 {
			return 0, fmt.Errorf("%w: negative page index %d", ErrUnresolvableDestination, idx)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("%w: bookmark has no page target", ErrUnresolvableDestination)
	}
}

// ResolveTitle picks the display title of a bookmark: its own title, else
// the named destination it points to, else DefaultTitle.
func ResolveTitle(it Item) string {
	if t := trimTitle(it.Title); t != "" {
		return t
	}
	if it.Dest.Kind == DestNamed {
		if t := trimTitle(it.Dest.Name); t != "" {
			return t
		}
	}
	return DefaultTitle
}

// Depth returns the nesting depth of the deepest entry, 0 for none.
func Depth(entries []Entry) int {
	deepest := 0
	for _, e := range entries {
		if d := 1 + Depth(e.Children); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Count returns the number of entries in the tree.
func Count(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += 1 + Count(e.Children)
	}
	return n
}
