package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSlotCachesWithinTTL(t *testing.T) {
	slot := NewSlot[int](time.Hour)
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := slot.Get(context.Background(), fetch)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if v != 42 {
			t.Fatalf("value = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	hits, misses := slot.Counters()
	if hits != 2 || misses != 1 {
		t.Errorf("hits = %d, misses = %d, want 2/1", hits, misses)
	}
}

func TestSlotRefetchesAfterTTL(t *testing.T) {
	slot := NewSlot[string](10 * time.Millisecond)
	calls := 0
	fetch := func(ctx context.Context) (string, error) {
		calls++
		return "fresh", nil
	}

	if _, err := slot.Get(context.Background(), fetch); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := slot.Get(context.Background(), fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestSlotServesStaleOnError(t *testing.T) {
	slot := NewSlot[string](time.Millisecond)
	first := true
	fetch := func(ctx context.Context) (string, error) {
		if first {
			first = false
			return "v1", nil
		}
		return "", errors.New("upstream down")
	}

	if _, err := slot.Get(context.Background(), fetch); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	v, err := slot.Get(context.Background(), fetch)
	if err != nil {
		t.Fatalf("expected stale value, got error: %v", err)
	}
	if v != "v1" {
		t.Errorf("value = %q, want stale v1", v)
	}
}

func TestSlotErrorWithNoPriorValue(t *testing.T) {
	slot := NewSlot[string](time.Minute)
	wantErr := errors.New("boom")
	_, err := slot.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestSlotSingleFetchUnderConcurrency(t *testing.T) {
	slot := NewSlot[int](time.Hour)
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		return 1, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := slot.Get(context.Background(), fetch); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
}

func TestSlotInvalidate(t *testing.T) {
	slot := NewSlot[int](time.Hour)
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := slot.Get(context.Background(), fetch)
	if v != 1 {
		t.Fatalf("value = %d", v)
	}
	slot.Invalidate()
	v, _ = slot.Get(context.Background(), fetch)
	if v != 2 {
		t.Errorf("value after invalidate = %d, want 2", v)
	}
}

func TestSlotObserver(t *testing.T) {
	var outcomes []string
	slot := NewSlot(5*time.Millisecond, WithObserver[int](func(o string) {
		outcomes = append(outcomes, o)
	}))

	ok := func(ctx context.Context) (int, error) { return 1, nil }
	fail := func(ctx context.Context) (int, error) { return 0, errors.New("down") }

	if _, err := slot.Get(t.Context(), ok); err != nil {
		t.Fatal(err)
	}
	if _, err := slot.Get(t.Context(), ok); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if v, err := slot.Get(t.Context(), fail); err != nil || v != 1 {
		t.Fatalf("stale get = %d, %v", v, err)
	}
	slot.Invalidate()
	if _, err := slot.Get(t.Context(), fail); err == nil {
		t.Fatal("expected error after invalidate")
	}

	// Exactly one observation per Get.
	want := []string{"miss", "hit", "stale", "miss"}
	if len(outcomes) != len(want) {
		t.Fatalf("outcomes = %v, want %v", outcomes, want)
	}
	for i := range want {
		if outcomes[i] != want[i] {
			t.Errorf("outcome[%d] = %q, want %q", i, outcomes[i], want[i])
		}
	}
}
