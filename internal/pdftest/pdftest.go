// Package pdftest assembles small uncompressed PDFs with blank pages and a
// bookmark outline for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Mark is one bookmark.
type Mark struct {
	Title string
	// Page is the 1-indexed target, used when Dest is empty.
	Page int
	// Dest is a raw /Dest value such as "/intro" or "(appendix)".
	Dest string
	// Action points through a GoTo action instead of /Dest.
	Action bool
	Kids   []Mark
}

type Spec struct {
	Pages int
	// Title goes into the Info dictionary when set.
	Title string
	// Catalog holds extra raw catalog entries.
	Catalog string
	Marks   []Mark
}

// PageRef is the reference of 1-indexed page i: the catalog is object 1,
// the page tree object 2 and the pages follow.
func PageRef(i int) string { return fmt.Sprintf("%d 0 R", 2+i) }

// Build writes the document, computing xref offsets as it goes.
func Build(spec Spec) []byte {
	var objs []string
	reserve := func() int {
		objs = append(objs, "")
		return len(objs)
	}
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := reserve()
	tree := reserve()
	var kids []string
	for i := 1; i <= spec.Pages; i++ {
		n := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /Resources << >> >>", tree))
		kids = append(kids, fmt.Sprintf("%d 0 R", n))
	}
	objs[tree-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), spec.Pages)

	info := 0
	if spec.Title != "" {
		info = add(fmt.Sprintf("<< /Title (%s) /Producer (pdftest) >>", spec.Title))
	}

	cat := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", tree)
	if len(spec.Marks) > 0 {
		root := reserve()
		first, last, count := addMarks(&objs, spec.Marks, root)
		objs[root-1] = fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count %d >>", first, last, count)
		cat += fmt.Sprintf(" /Outlines %d 0 R", root)
	}
	objs[catalog-1] = cat + spec.Catalog + " >>"

	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %d 0 R", len(objs)+1, catalog)
	if info > 0 {
		fmt.Fprintf(&b, " /Info %d 0 R", info)
	}
	fmt.Fprintf(&b, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

func addMarks(objs *[]string, marks []Mark, parent int) (first, last, count int) {
	ids := make([]int, len(marks))
	for i := range marks {
		*objs = append(*objs, "")
		ids[i] = len(*objs)
	}
	for i, m := range marks {
		var b strings.Builder
		fmt.Fprintf(&b, "<< /Title (%s) /Parent %d 0 R", m.Title, parent)
		dest := m.Dest
		if dest == "" {
			dest = fmt.Sprintf("[%s /Fit]", PageRef(m.Page))
		}
		if m.Action {
			fmt.Fprintf(&b, " /A << /S /GoTo /D %s >>", dest)
		} else {
			fmt.Fprintf(&b, " /Dest %s", dest)
		}
		if i > 0 {
			fmt.Fprintf(&b, " /Prev %d 0 R", ids[i-1])
		}
		if i < len(marks)-1 {
			fmt.Fprintf(&b, " /Next %d 0 R", ids[i+1])
		}
		if len(m.Kids) > 0 {
			f, l, c := addMarks(objs, m.Kids, ids[i])
			fmt.Fprintf(&b, " /First %d 0 R /Last %d 0 R /Count %d", f, l, c)
			count += c
		}
		b.WriteString(" >>")
		(*objs)[ids[i]-1] = b.String()
		count++
	}
	return ids[0], ids[len(ids)-1], count
}
