package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ZipSink writes emitted files into a zip archive. Close must be called to
// write the central directory; it does not close the underlying writer.
type ZipSink struct {
	zw       *zip.Writer
	modified time.Time
	files    int
}

func NewZipSink(w io.Writer) *ZipSink {
	return &ZipSink{zw: zip.NewWriter(w), modified: time.Now()}
}

func (z *ZipSink) Emit(name string, data []byte) error {
	fh := &zip.FileHeader{
		Name:     strings.TrimPrefix(name, "/"),
		Method:   zip.Deflate,
		Modified: z.modified,
	}
	w, err := z.zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	z.files++
	return nil
}

// Files returns how many files were written so far.
func (z *ZipSink) Files() int { return z.files }

func (z *ZipSink) Close() error { return z.zw.Close() }

// DirSink writes emitted files below a root directory.
type DirSink struct {
	Root string
}

func (d DirSink) Emit(name string, data []byte) error {
	rel := filepath.FromSlash(strings.TrimPrefix(name, "/"))
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("refusing to write outside %s: %s", d.Root, name)
	}
	full := filepath.Join(d.Root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
