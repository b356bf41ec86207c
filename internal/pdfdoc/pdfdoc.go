// Package pdfdoc reads outlines from PDF files and copies page ranges into
// new documents. Parsing and writing are done by pdfcpu; document metadata
// is read with rsc.io/pdf.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrInvalidPDF is returned by Open when pdfcpu cannot parse the input.
var ErrInvalidPDF = errors.New("invalid pdf")

var initOnce sync.Once

// Init performs pdfcpu's process-wide setup. It keeps pdfcpu from creating
// a configuration directory in the user's home. Safe to call repeatedly.
func Init() {
	initOnce.Do(api.DisableConfigDir)
}

// Document is a parsed PDF held in memory.
type Document struct {
	raw []byte
	ctx *model.Context

	// page object number -> 1-indexed page number
	pageByObj map[int]int
}

// Open parses and validates data.
func Open(data []byte) (*Document, error) {
	Init()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	d := &Document{raw: data, ctx: ctx, pageByObj: make(map[int]int, ctx.PageCount)}
	if err := d.indexPages(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) PageCount() int { return d.ctx.PageCount }

// indexPages walks the page tree in document order and records which object
// is which page, so explicit destinations can be mapped back to numbers.
func (d *Document) indexPages() error {
	cat, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	root, ok := cat.Find("Pages")
	if !ok {
		return fmt.Errorf("catalog has no page tree")
	}
	n := 0
	seen := map[int]bool{}
	var walk func(o types.Object) error
	walk = func(o types.Object) error {
		nr, isRef := objNr(o)
		if isRef {
			if seen[nr] {
				return nil
			}
			seen[nr] = true
		}
		dict, err := d.ctx.DereferenceDict(o)
		if err != nil {
			return fmt.Errorf("page tree: %w", err)
		}
		if dict == nil {
			return nil
		}
		if kids, ok := dict.Find("Kids"); ok {
			arr, err := d.ctx.DereferenceArray(kids)
			if err != nil {
				return fmt.Errorf("page tree kids: %w", err)
			}
			for _, k := range arr {
				if err := walk(k); err != nil {
					return err
				}
			}
			return nil
		}
		n++
		if isRef {
			d.pageByObj[nr] = n
		}
		return nil
	}
	return walk(root)
}

func objNr(o types.Object) (int, bool) {
	switch ir := o.(type) {
	case types.IndirectRef:
		return ir.ObjectNumber.Value(), true
	case *types.IndirectRef:
		if ir != nil {
			return ir.ObjectNumber.Value(), true
		}
	}
	return 0, false
}

// text decodes a PDF text string, following indirect references.
func (d *Document) text(o types.Object) string {
	if o == nil {
		return ""
	}
	o, err := d.ctx.Dereference(o)
	if err != nil || o == nil {
		return ""
	}
	switch v := o.(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return s
		}
		return v.Value()
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return s
		}
	case types.Name:
		return v.Value()
	}
	return ""
}
