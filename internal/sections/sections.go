package sections

import (
	"github.com/thywilljoshua/pdf-split/internal/outline"
)

// Section is one outline entry together with the pages it owns.
type Section struct {
	Title    string    `json:"title" yaml:"title"`
	Pages    []int     `json:"pages" yaml:"pages,flow"`
	Children []Section `json:"children,omitempty" yaml:"children,omitempty"`
}

// Builder computes page ranges for an outline. Endpoints are inclusive: an
// endpoint is the last page still available to the subtree being built.
type Builder struct {
	// PageCount bounds the single-page fallback for entries that end up
	// with no pages of their own.
	PageCount int
}

// FromOutline builds the tree for a whole document. The synthetic root
// targets page 1 so that front matter before the first bookmark has an
// owner.
func FromOutline(title string, entries []outline.Entry, pageCount, maxLevel int) Section {
	root := outline.Entry{Title: title, TargetPage: 1, Children: entries}
	return Builder{PageCount: pageCount}.Build(root, pageCount, maxLevel)
}

// Build computes the section for entry given the last page its subtree may
// claim and how many more nesting levels are allowed. Children are walked
// last to first since each child ends where the next one starts.
func (b Builder) Build(entry outline.Entry, endpoint, remainingDepth int) Section {
	p := entry.TargetPage
	if remainingDepth <= 0 || len(entry.Children) == 0 {
		return Section{Title: entry.Title, Pages: sequence(p, endpoint)}
	}

	kids := make([]Section, len(entry.Children))
	curr := endpoint
	for i := len(entry.Children) - 1; i >= 0; i-- {
		child := b.Build(entry.Children[i], curr, remainingDepth-1)
		if len(child.Pages) == 0 && len(child.Children) == 0 {
			// Shares its start with the next sibling, or points past the end.
			if next := curr + 1; next >= 1 && next <= b.PageCount {
				child.Pages = []int{next}
			}
		}
		kids[i] = child
		if first, ok := FirstPage(child); ok {
			curr = first - 1
		}
	}

	return Section{
		Title:    entry.Title,
		Pages:    sequence(p, curr),
		Children: kids,
	}
}

// FirstPage returns the lowest page owned by s or any of its descendants.
func FirstPage(s Section) (int, bool) {
	if len(s.Pages) > 0 {
		return s.Pages[0], true
	}
	for _, c := range s.Children {
		if p, ok := FirstPage(c); ok {
			return p, true
		}
	}
	return 0, false
}

// LastPage returns the highest page owned by s or any of its descendants.
func LastPage(s Section) (int, bool) {
	for i := len(s.Children) - 1; i >= 0; i-- {
		if p, ok := LastPage(s.Children[i]); ok {
			return p, true
		}
	}
	if len(s.Pages) > 0 {
		return s.Pages[len(s.Pages)-1], true
	}
	return 0, false
}

// sequence returns start..end inclusive, or nil when end < start.
func sequence(start, end int) []int {
	if end < start {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}
