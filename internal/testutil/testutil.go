// Package testutil provides shared test helpers for setting up content
// directories and guestbook databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkeller/folio/internal/cache"
	"github.com/mkeller/folio/internal/content"
	"github.com/mkeller/folio/internal/guestbook"
)

// Logger returns a slog.Logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteDoc writes a Markdown document under dir, creating parent folders.
func WriteDoc(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ContentService creates a content service over a temp directory and returns
// both. Seed files with WriteDoc before calling, or reload after writing.
func ContentService(t *testing.T, dir string) *content.Service {
	t.Helper()
	store, err := content.NewFSStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	svc, err := content.NewService(store, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

// GuestbookService creates a guestbook service over a temp SQLite database
// that is cleaned up with the test.
func GuestbookService(t *testing.T) *guestbook.Service {
	t.Helper()
	dbFile := filepath.Join(t.TempDir(), "guestbook.db")
	store, err := guestbook.Open(dbFile)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return guestbook.NewService(store, cache.NewStore(t.Context(), time.Minute), Logger())
}
