package cardgen

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBuildArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFileT(t, filepath.Join(dir, "2_cupom_bebidas.pdf"), []byte("%PDF-1.4 two\n"))
	writeFileT(t, filepath.Join(dir, "1_promocao_alimentos.pdf"), []byte("%PDF-1.4 one\n"))
	// Non-PDF neighbors must never become archive entries.
	writeFileT(t, filepath.Join(dir, "report.html"), []byte("<html></html>"))
	writeFileT(t, filepath.Join(dir, "notes.txt"), []byte("notes"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o750); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	path, err := buildArchiveAt(dir, now)
	if err != nil {
		t.Fatalf("buildArchiveAt() error = %v", err)
	}

	if got, want := filepath.Base(path), "cards-20260314-150926.zip"; got != want {
		t.Errorf("archive name = %q, want %q", got, want)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()

	want := []string{"1_promocao_alimentos.pdf", "2_cupom_bebidas.pdf"}
	if len(zr.File) != len(want) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}

	// Entries round-trip, so the maximum-compression deflate writer
	// produced valid streams.
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("opening entry: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if string(b) != "%PDF-1.4 one\n" {
		t.Errorf("entry content = %q", b)
	}
}

func TestBuildArchiveEmptyDir(t *testing.T) {
	t.Parallel()

	path, err := BuildArchive(t.TempDir())
	if err != nil {
		t.Fatalf("BuildArchive() error = %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 0 {
		t.Errorf("archive has %d entries, want 0", len(zr.File))
	}
}

func TestBuildArchiveMissingDir(t *testing.T) {
	t.Parallel()

	if _, err := BuildArchive(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrArchiveCreate) {
		t.Errorf("BuildArchive(missing dir) error = %v, want ErrArchiveCreate", err)
	}
}
