package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thywilljoshua/pdf-split/internal/export"
	"github.com/thywilljoshua/pdf-split/internal/outline"
	"github.com/thywilljoshua/pdf-split/internal/pdfdoc"
	"github.com/thywilljoshua/pdf-split/internal/split"
)

// upload is a parsed split or plan request.
type upload struct {
	name string
	data []byte
	cfg  split.Config
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	// The archive is buffered so a failure halfway still gets a JSON error
	// instead of a truncated zip.
	var buf bytes.Buffer
	zs := export.NewZipSink(&buf)
	res, err := split.Run(r.Context(), up.data, up.cfg, zs)
	if err != nil {
		s.splitError(w, r, err)
		return
	}
	if err := zs.Close(); err != nil {
		jsonError(w, "failed to finalise archive", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_split.zip"`, up.name))
	w.Header().Set("X-Files-Written", strconv.Itoa(res.Files))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	plan, err := split.BuildPlan(r.Context(), up.data, up.cfg)
	if err != nil {
		s.splitError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// readUpload parses the multipart body. On failure it has already written
// the response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return upload{}, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	level := s.cfg.MaxLevel
	if v := r.FormValue("level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, fmt.Sprintf("level must be a non-negative integer, got %q", v), http.StatusBadRequest)
			return upload{}, false
		}
		level = n
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		jsonError(w, "pdf is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	return upload{
		name: baseName(header.Filename),
		data: data,
		cfg: split.Config{
			MaxLevel:    level,
			Title:       r.FormValue("title"),
			Concurrency: s.cfg.Concurrency,
			Enhancer:    s.enhancer,
			Logger:      s.log.With("file", header.Filename),
		},
	}, true
}

func (s *Server) splitError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, outline.ErrMissingOutline),
		errors.Is(err, outline.ErrUnresolvableDestination):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, pdfdoc.ErrInvalidPDF):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.log.Warn("request abandoned", "path", r.URL.Path, "error", err)
	default:
		s.log.Error("split failed", "path", r.URL.Path, "error", err)
		jsonError(w, "split failed", http.StatusInternalServerError)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// baseName turns an uploaded file name into the stem used for the archive.
func baseName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = export.Sanitize(strings.ReplaceAll(name, "..", "_"))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "document"
	}
	return name
}
