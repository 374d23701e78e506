package guestbook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mkeller/folio/internal/apperr"
	"github.com/mkeller/folio/internal/cache"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-guestbook-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(testStore(t), cache.NewStore(t.Context(), time.Minute), logger)
}

func TestCreateAndList(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateRequest{Name: "Ada", Message: "Nice site!"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" {
		t.Error("expected generated id")
	}

	res, err := svc.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || len(res.Messages) != 1 {
		t.Fatalf("list = %+v", res)
	}
	if res.Messages[0].Name != "Ada" {
		t.Errorf("name = %q", res.Messages[0].Name)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	old := Message{ID: "a", Name: "Old", Message: "first", CreatedAt: time.Now().Add(-time.Hour)}
	recent := Message{ID: "b", Name: "New", Message: "second", CreatedAt: time.Now()}
	if err := store.Insert(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, recent); err != nil {
		t.Fatal(err)
	}

	messages, total, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("total = %d", total)
	}
	if messages[0].ID != "b" {
		t.Errorf("first message = %q, want b (newest)", messages[0].ID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []CreateRequest{
		{Name: "", Message: "hi"},
		{Name: "Ada", Message: ""},
		{Name: "Ada", Message: strings.Repeat("x", 501)},
		{Name: strings.Repeat("n", 81), Message: "hi"},
		{Name: "Ada", Message: "hi", Website: "not a url"},
	}
	for i, req := range cases {
		if _, err := svc.Create(ctx, req); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("case %d: err = %v, want ErrInvalid", i, err)
		}
	}
}

func TestListCachedWithinTTL(t *testing.T) {
	store := testStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, cache.NewStore(t.Context(), time.Minute), logger)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateRequest{Name: "Ada", Message: "hello"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.List(ctx, 10, 0); err != nil {
		t.Fatal(err)
	}

	// Write behind the service's back; the cached page should still be served.
	if err := store.Insert(ctx, Message{ID: "x", Name: "Ghost", Message: "hidden", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	res, err := svc.List(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("total = %d, want cached 1", res.Total)
	}

	// A service-level create invalidates the cache.
	if _, err := svc.Create(ctx, CreateRequest{Name: "Bob", Message: "hi"}); err != nil {
		t.Fatal(err)
	}
	res, err = svc.List(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 {
		t.Errorf("total after invalidate = %d, want 3", res.Total)
	}
}

func TestDelete(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateRequest{Name: "Ada", Message: "bye"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
