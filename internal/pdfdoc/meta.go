package pdfdoc

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/pdf-split/internal/outline"
)

const dcNamespace = "http://purl.org/dc/elements/1.1/"

// Title returns the document title: the Info dictionary's /Title, else the
// XMP dc:title, else outline.DefaultTitle.
func (d *Document) Title() string {
	return metadataTitle(d.raw)
}

func metadataTitle(data []byte) (title string) {
	title = outline.DefaultTitle
	defer func() {
		// rsc.io/pdf panics on filters it does not implement.
		if recover() != nil {
			title = outline.DefaultTitle
		}
	}()

	r, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return title
	}
	if t := strings.TrimSpace(r.Trailer().Key("Info").Key("Title").Text()); t != "" {
		return t
	}
	meta := r.Trailer().Key("Root").Key("Metadata")
	if meta.Kind() != rpdf.Stream {
		return title
	}
	rc := meta.Reader()
	defer rc.Close()
	if t := xmpTitle(rc); t != "" {
		return t
	}
	return title
}

// xmpTitle returns the first rdf:li under dc:title.
func xmpTitle(r io.Reader) string {
	dec := xml.NewDecoder(r)
	inTitle := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space == dcNamespace && el.Name.Local == "title" {
				inTitle = true
				continue
			}
			if inTitle && el.Name.Local == "li" {
				var s string
				if err := dec.DecodeElement(&s, &el); err != nil {
					return ""
				}
				return strings.TrimSpace(s)
			}
		case xml.EndElement:
			if el.Name.Space == dcNamespace && el.Name.Local == "title" {
				inTitle = false
			}
		}
	}
}
