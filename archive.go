package cardgen

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// archiveTimeFormat stamps each run's archive so a still-present previous
// archive is never silently merged into or overwritten.
const archiveTimeFormat = "20060102-150405"

// BuildArchive packs every PDF in dir into one zip at maximum compression,
// written into dir itself and named after the current time. Entry names
// are the artifacts' base names, flat, with no directory nesting. The
// returned path is flush-safe: the file is synced and closed before the
// function returns.
func BuildArchive(dir string) (string, error) {
	return buildArchiveAt(dir, time.Now())
}

func buildArchiveAt(dir string, now time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}

	var pdfs []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, e.Name())
		}
	}
	sort.Strings(pdfs)

	archivePath := filepath.Join(dir, "cards-"+now.Format(archiveTimeFormat)+".zip")
	f, err := os.Create(archivePath) // #nosec G304 -- path is built from the validated output dir
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, name := range pdfs {
		if err := addEntry(zw, dir, name); err != nil {
			_ = zw.Close()
			_ = f.Close()
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	// The archive is offered for download as soon as this returns; Sync
	// guarantees the bytes reached the disk, not only the writer's buffer.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	return archivePath, nil
}

// addEntry streams one artifact into the archive under its base name.
func addEntry(zw *zip.Writer, dir, name string) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	src, err := os.Open(filepath.Join(dir, name)) // #nosec G304 -- names come from ReadDir above
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveCreate, err)
	}
	return nil
}
