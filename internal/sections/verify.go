package sections

import (
	"errors"
	"fmt"
)

// Verify checks a tree built by FromOutline against a document of
// pageCount pages: every run is contiguous and ascending, every page in
// [1, pageCount] is owned, and nothing is owned twice. The one duplicate
// allowed is the degenerate-range fallback: a childless single-page section
// holding exactly the first page owned after it.
func Verify(root Section, pageCount int) error {
	var errs []error
	owners := make(map[int]int, pageCount)
	walk(root, "", pageCount+1, func(path string, s Section, next int) {
		for i, p := range s.Pages {
			if p < 1 || p > pageCount {
				errs = append(errs, fmt.Errorf("%s: page %d outside [1, %d]", path, p, pageCount))
			}
			if i > 0 && p != s.Pages[i-1]+1 {
				errs = append(errs, fmt.Errorf("%s: pages not contiguous at %d", path, p))
			}
			if len(s.Pages) == 1 && len(s.Children) == 0 && p == next && owners[p] > 0 {
				continue
			}
			owners[p]++
		}
	})
	for p := 1; p <= pageCount; p++ {
		switch n := owners[p]; {
		case n == 0:
			errs = append(errs, fmt.Errorf("page %d not owned by any section", p))
		case n > 1:
			errs = append(errs, fmt.Errorf("page %d owned by %d sections", p, n))
		}
	}
	return errors.Join(errs...)
}

// Row is one section in a flattened, depth-annotated view of the tree.
type Row struct {
	Depth int    `json:"depth" yaml:"depth"`
	Path  string `json:"path" yaml:"path"`
	Title string `json:"title" yaml:"title"`
	Start int    `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	End   int    `json:"end_page,omitempty" yaml:"end_page,omitempty"`
}

// Flatten lists the tree in pre-order.
func Flatten(root Section) []Row {
	var rows []Row
	var visit func(s Section, path string, depth int)
	visit = func(s Section, path string, depth int) {
		r := Row{Depth: depth, Path: path, Title: s.Title}
		if n := len(s.Pages); n > 0 {
			r.Start, r.End = s.Pages[0], s.Pages[n-1]
		}
		rows = append(rows, r)
		for i, c := range s.Children {
			visit(c, childPath(path, i), depth+1)
		}
	}
	visit(root, "0", 0)
	return rows
}

// Count returns the number of sections in the tree, root included.
func Count(s Section) int {
	n := 1
	for _, c := range s.Children {
		n += Count(c)
	}
	return n
}

// walk visits children before the parent, in reverse sibling order, which
// is the order in which Build hands out pages. next is the first page owned
// by whatever follows s, the page Build falls back to for an empty leaf.
func walk(s Section, path string, next int, fn func(path string, s Section, next int)) {
	if path == "" {
		path = s.Title
	}
	after := next
	for i := len(s.Children) - 1; i >= 0; i-- {
		c := s.Children[i]
		walk(c, path+"/"+c.Title, after, fn)
		if first, ok := FirstPage(c); ok {
			after = first
		}
	}
	fn(path, s, next)
}

func childPath(parent string, i int) string {
	return fmt.Sprintf("%s.%d", parent, i+1)
}
