package pdfdoc

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/thywilljoshua/pdf-split/internal/outline"
	"github.com/thywilljoshua/pdf-split/internal/pdftest"
)

func TestOpenAndOutline(t *testing.T) {
	raw := pdftest.Build(pdftest.Spec{
		Pages: 10,
		Title: "Service Manual",
		Marks: []pdftest.Mark{
			{Title: "Safety", Page: 3, Kids: []pdftest.Mark{{Title: "Warnings", Page: 4}}},
			{Title: "Setup", Page: 7, Action: true},
		},
	})
	doc, err := Open(raw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.PageCount() != 10 {
		t.Errorf("PageCount = %d, want 10", doc.PageCount())
	}

	items, err := doc.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	entries, err := outline.Resolve(context.Background(), doc, items)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []outline.Entry{
		{Title: "Safety", TargetPage: 3, Children: []outline.Entry{{Title: "Warnings", TargetPage: 4}}},
		{Title: "Setup", TargetPage: 7},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
	if got := doc.Title(); got != "Service Manual" {
		t.Errorf("Title = %q, want %q", got, "Service Manual")
	}
}

func TestNamedDestinations(t *testing.T) {
	raw := pdftest.Build(pdftest.Spec{
		Pages: 6,
		Catalog: fmt.Sprintf(" /Dests << /intro [%s /Fit] >> /Names << /Dests << /Names [(appendix) [%s /Fit]] >> >>",
			pdftest.PageRef(2), pdftest.PageRef(5)),
		Marks: []pdftest.Mark{
			{Title: "Introduction", Dest: "/intro"},
			{Title: "", Dest: "(appendix)"},
		},
	})
	doc, err := Open(raw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	items, err := doc.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	entries, err := outline.Resolve(context.Background(), doc, items)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []outline.Entry{
		{Title: "Introduction", TargetPage: 2},
		{Title: "appendix", TargetPage: 5},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
	if got := doc.Title(); got != outline.DefaultTitle {
		t.Errorf("Title = %q, want %q", got, outline.DefaultTitle)
	}
}

func TestPageIndexUnresolvable(t *testing.T) {
	doc, err := Open(pdftest.Build(pdftest.Spec{Pages: 2, Marks: []pdftest.Mark{{Title: "A", Page: 1}}}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tests := []struct {
		name string
		dest outline.Destination
	}{
		{"unknown name", outline.Destination{Kind: outline.DestNamed, Name: "nowhere"}},
		{"not a page", outline.Destination{Kind: outline.DestRef, Ref: 1}},
		{"no target", outline.Destination{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.PageIndex(context.Background(), tt.dest)
			if !errors.Is(err, outline.ErrUnresolvableDestination) {
				t.Errorf("expected ErrUnresolvableDestination, got %v", err)
			}
		})
	}
}

func TestOutlineStopsOnCycle(t *testing.T) {
	doc, err := Open(pdftest.Build(pdftest.Spec{
		Pages: 4,
		Marks: []pdftest.Mark{
			{Title: "A", Page: 1},
			{Title: "B", Page: 2, Kids: []pdftest.Mark{{Title: "B1", Page: 3}}},
			{Title: "C", Page: 4},
		},
	}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	dict := func(o types.Object) types.Dict {
		t.Helper()
		d, err := doc.ctx.DereferenceDict(o)
		if err != nil || d == nil {
			t.Fatalf("dereference %v: %v", o, err)
		}
		return d
	}
	cat, err := doc.ctx.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	outlines, _ := cat.Find("Outlines")
	first, ok := dict(outlines).Find("First")
	if !ok {
		t.Fatal("outline root has no /First")
	}

	// C and B1 both lead back to A.
	var items []types.Dict
	for next, ok := first, true; ok; next, ok = items[len(items)-1].Find("Next") {
		items = append(items, dict(next))
	}
	items[len(items)-1]["Next"] = first
	kid, _ := items[1].Find("First")
	dict(kid)["Next"] = first

	done := make(chan []outline.Item, 1)
	go func() {
		got, err := doc.Outline()
		if err != nil {
			t.Errorf("Outline: %v", err)
		}
		done <- got
	}()
	var got []outline.Item
	select {
	case got = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Outline did not return on a cyclic chain")
	}

	want := []string{"A", "B", "B/B1", "C"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("titles = %v, want %v", titles(got), want)
	}
}

func titles(items []outline.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
		for _, c := range titles(it.Children) {
			out = append(out, it.Title+"/"+c)
		}
	}
	return out
}

func TestMissingOutline(t *testing.T) {
	doc, err := Open(pdftest.Build(pdftest.Spec{Pages: 3}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := doc.Outline(); !errors.Is(err, outline.ErrMissingOutline) {
		t.Fatalf("expected ErrMissingOutline, got %v", err)
	}
}

func TestCopyPages(t *testing.T) {
	doc, err := Open(pdftest.Build(pdftest.Spec{Pages: 8, Marks: []pdftest.Mark{{Title: "A", Page: 1}}}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	ext, err := doc.CopyPages(context.Background(), []int{3, 4, 5}, "Middle")
	if err != nil {
		t.Fatalf("CopyPages: %v", err)
	}
	if ext.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", ext.PageCount())
	}
	data, err := ext.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := Open(data)
	if err != nil {
		t.Fatalf("reopen copy: %v", err)
	}
	if back.PageCount() != 3 {
		t.Errorf("copy has %d pages, want 3", back.PageCount())
	}

	single, err := doc.CopyPages(context.Background(), []int{8}, "Last")
	if err != nil {
		t.Fatalf("CopyPages single: %v", err)
	}
	if single.PageCount() != 1 {
		t.Errorf("single PageCount = %d, want 1", single.PageCount())
	}

	if _, err := doc.CopyPages(context.Background(), []int{8, 9}, "Past"); err == nil {
		t.Error("expected an error for pages past the end")
	}
	empty, err := doc.CopyPages(context.Background(), nil, "Empty")
	if err != nil || empty.PageCount() != 0 {
		t.Errorf("empty copy = %v, %v", empty, err)
	}
}

func TestCopyPagesSetsTitle(t *testing.T) {
	tests := []struct {
		name   string
		source string
		title  string
	}{
		{"replaces source title", "Manual", "Chapter A"},
		{"creates info dictionary", "", "Chapter A"},
		{"non-ascii with parentheses", "Manual", "Überblick (Teil 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Open(pdftest.Build(pdftest.Spec{
				Pages: 4,
				Title: tt.source,
				Marks: []pdftest.Mark{{Title: "A", Page: 1}},
			}))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			ext, err := doc.CopyPages(context.Background(), []int{2, 3}, tt.title)
			if err != nil {
				t.Fatalf("CopyPages: %v", err)
			}
			data, err := ext.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if got := metadataTitle(data); got != tt.title {
				t.Errorf("title of copy = %q, want %q", got, tt.title)
			}
			back, err := Open(data)
			if err != nil {
				t.Fatalf("reopen copy: %v", err)
			}
			if back.PageCount() != 2 {
				t.Errorf("copy has %d pages, want 2", back.PageCount())
			}
		})
	}
}

func TestXMPTitle(t *testing.T) {
	const packet = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/">
   <dc:creator><rdf:Seq><rdf:li>Someone</rdf:li></rdf:Seq></dc:creator>
   <dc:title><rdf:Alt><rdf:li xml:lang="x-default"> Field Guide </rdf:li></rdf:Alt></dc:title>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`
	if got := xmpTitle(strings.NewReader(packet)); got != "Field Guide" {
		t.Errorf("xmpTitle = %q, want %q", got, "Field Guide")
	}
	if got := xmpTitle(strings.NewReader("<x/>")); got != "" {
		t.Errorf("xmpTitle without dc:title = %q, want empty", got)
	}
}

func TestMetadataTitleGarbage(t *testing.T) {
	if got := metadataTitle([]byte("not a pdf")); got != outline.DefaultTitle {
		t.Errorf("metadataTitle = %q, want %q", got, outline.DefaultTitle)
	}
}

func TestOpenGarbage(t *testing.T) {
	if _, err := Open([]byte("%PDF-1.7\nnot really")); !errors.Is(err, ErrInvalidPDF) {
		t.Errorf("expected ErrInvalidPDF, got %v", err)
	}
}
