package split

import (
	"log/slog"

	"github.com/thywilljoshua/pdf-split/internal/ai"
	"github.com/thywilljoshua/pdf-split/internal/sections"
)

// DefaultMaxLevel is the outline depth used when none is configured.
const DefaultMaxLevel = 3

type Config struct {
	// MaxLevel is how many outline levels become separate documents; deeper
	// bookmarks are folded into their deepest allowed ancestor. 0 yields a
	// single document.
	MaxLevel int
	// Title overrides the document title used for the root section.
	Title string
	// Concurrency bounds parallel page copies (0 picks a default).
	Concurrency int
	Enhancer    ai.Enhancer
	Logger      *slog.Logger
}

// Plan is the section tree computed for a document, before any page is
// copied.
type Plan struct {
	Title        string           `json:"title" yaml:"title"`
	PageCount    int              `json:"page_count" yaml:"page_count"`
	OutlineDepth int              `json:"outline_depth" yaml:"outline_depth"`
	MaxLevel     int              `json:"max_level" yaml:"max_level"`
	Root         sections.Section `json:"root" yaml:"root"`
}

type Result struct {
	Title     string `json:"title"`
	PageCount int    `json:"page_count"`
	Sections  int    `json:"sections"`
	Files     int    `json:"files_written"`
}
