package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thywilljoshua/pdf-split/internal/config"
	"github.com/thywilljoshua/pdf-split/internal/pdftest"
	"github.com/thywilljoshua/pdf-split/internal/split"
)

func newTestServer(maxUpload int64) *Server {
	cfg := config.Config{
		Port:           "0",
		MaxUploadBytes: maxUpload,
		MaxLevel:       3,
		Concurrency:    2,
		AIProvider:     config.AIOff,
	}
	return New(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func uploadRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if data != nil {
		fw, err := mw.CreateFormFile("pdf", filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func outlined() []byte {
	return pdftest.Build(pdftest.Spec{
		Pages: 6,
		Title: "Guide",
		Marks: []pdftest.Mark{
			{Title: "Intro", Page: 2},
			{Title: "Usage", Page: 4, Kids: []pdftest.Mark{{Title: "Flags", Page: 5}}},
		},
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSplit(t *testing.T) {
	rec := httptest.NewRecorder()
	req := uploadRequest(t, "/api/split", "guide.pdf", outlined(), map[string]string{"level": "1"})
	newTestServer(1<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="guide_split.zip"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, f := range zr.File {
		got[f.Name] = true
	}
	for _, name := range []string{"Guide/Intro.pdf", "Guide/Usage.pdf", "Guide/Guide.pdf"} {
		if !got[name] {
			t.Errorf("archive missing %s, has %v", name, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("archive has %d files, want 3", len(got))
	}
}

func TestPlan(t *testing.T) {
	rec := httptest.NewRecorder()
	req := uploadRequest(t, "/api/plan", "guide.pdf", outlined(), map[string]string{"title": "Handbook"})
	newTestServer(1<<20).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var plan split.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Root.Title != "Handbook" || plan.PageCount != 6 || len(plan.Root.Children) != 2 {
		t.Errorf("plan = %+v", plan)
	}
	if flags := plan.Root.Children[1].Children[0]; flags.Title != "Flags" || len(flags.Pages) != 2 {
		t.Errorf("Flags = %+v", flags)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     []byte
		fields   map[string]string
		max      int64
		want     int
		wantBody string
	}{
		{"no outline", "/api/split", pdftest.Build(pdftest.Spec{Pages: 2}), nil, 1 << 20,
			http.StatusUnprocessableEntity, `{"error":"no outline found, cannot proceed"}`},
		{"unresolvable", "/api/plan", pdftest.Build(pdftest.Spec{Pages: 2, Marks: []pdftest.Mark{{Title: "X", Dest: "/gone"}}}), nil, 1 << 20,
			http.StatusUnprocessableEntity, ""},
		{"not a pdf", "/api/split", []byte("hello"), nil, 1 << 20, http.StatusBadRequest, ""},
		{"missing file", "/api/split", nil, nil, 1 << 20, http.StatusBadRequest, ""},
		{"bad level", "/api/split", outlined(), map[string]string{"level": "-1"}, 1 << 20, http.StatusBadRequest, ""},
		{"too large", "/api/split", outlined(), nil, 16, http.StatusRequestEntityTooLarge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer(tt.max).ServeHTTP(rec, uploadRequest(t, tt.path, "x.pdf", tt.data, tt.fields))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if got := string(bytes.TrimSpace(rec.Body.Bytes())); tt.wantBody != "" && got != tt.wantBody {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"guide.pdf":            "guide",
		`C:\docs\Manual.PDF`:   "Manual",
		"../../etc/passwd.pdf": "passwd",
		"a:b.pdf":              "a-b",
		".pdf":                 "document",
		"":                     "document",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}
