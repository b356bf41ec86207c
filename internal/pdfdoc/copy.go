package pdfdoc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/thywilljoshua/pdf-split/internal/export"
)

// Extract is a sub-document holding a run of pages copied out of a source
// document. Title is the Info /Title written into it.
type Extract struct {
	Title string
	pages int
	data  []byte
}

func (e *Extract) PageCount() int { return e.pages }

func (e *Extract) Serialize() ([]byte, error) { return e.data, nil }

// CopyPages writes pages, which must be an ascending contiguous run, into a
// new PDF titled title. Each call works on its own reader so calls may run
// concurrently.
func (d *Document) CopyPages(ctx context.Context, pages []int, title string) (export.Document, error) {
	if len(pages) == 0 {
		return &Extract{Title: title}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	first, last := pages[0], pages[len(pages)-1]
	if first < 1 || last > d.PageCount() {
		return nil, fmt.Errorf("pages %d-%d outside document of %d pages", first, last, d.PageCount())
	}

	sel := fmt.Sprintf("%d-%d", first, last)
	if first == last {
		sel = fmt.Sprintf("%d", first)
	}
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(d.raw), &buf, []string{sel}, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("pdfcpu trim %s: %w", sel, err)
	}
	data, err := withTitle(buf.Bytes(), title)
	if err != nil {
		return nil, fmt.Errorf("set title of pages %s: %w", sel, err)
	}
	return &Extract{Title: title, pages: len(pages), data: data}, nil
}

// withTitle rewrites the Info /Title of a serialized PDF, creating the Info
// dictionary when the source had none.
func withTitle(data []byte, title string) ([]byte, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}
	s, err := types.EscapedUTF16String(title)
	if err != nil {
		return nil, err
	}
	if ctx.Info == nil {
		ir, err := ctx.IndRefForNewObject(types.Dict{})
		if err != nil {
			return nil, err
		}
		ctx.Info = ir
	}
	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, fmt.Errorf("info dict: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("info dict missing")
	}
	info["Title"] = types.StringLiteral(*s)
	ctx.Title = title

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
