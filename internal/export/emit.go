package export

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sink receives the files of an export, paths slash-separated.
type Sink interface {
	Emit(name string, data []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, data []byte) error

func (f SinkFunc) Emit(name string, data []byte) error { return f(name, data) }

var illegal = strings.NewReplacer(
	"/", "-", `\`, "-", "?", "-", "%", "-", "*", "-",
	":", "-", "|", "-", `"`, "-", "<", "-", ">", "-",
)

// Sanitize makes a title usable as a single path element.
func Sanitize(title string) string {
	s := illegal.Replace(norm.NFC.String(title))
	if s == "." || s == ".." {
		// Would be cleaned away or climb out of the parent folder.
		return strings.Repeat("-", len(s))
	}
	return s
}

// Emit writes one file per node, children first. A node with children
// lives in a folder named after it (base/title/title.pdf), a leaf sits next
// to its siblings (base/title.pdf). Nodes without a document or without
// pages are skipped but their descendants are not.
func Emit(t *Tree, base string, sink Sink) error {
	if t == nil {
		return nil
	}
	title := Sanitize(t.Title)
	dir := path.Join(base, title)

	for _, c := range t.Children {
		if err := Emit(c, dir, sink); err != nil {
			return err
		}
	}

	if t.Doc == nil || t.Doc.PageCount() == 0 {
		return nil
	}
	data, err := t.Doc.Serialize()
	if err != nil {
		return fmt.Errorf("serialize %q: %w", t.Title, err)
	}

	name := path.Join(base, title+".pdf")
	if len(t.Children) > 0 {
		name = path.Join(dir, title+".pdf")
	}
	if err := sink.Emit(name, data); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}
