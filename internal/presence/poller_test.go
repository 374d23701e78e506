package presence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mkeller/folio/internal/integrations/spotify"
	"github.com/mkeller/folio/internal/sse"
)

func TestTickPublishesOnlyOnChange(t *testing.T) {
	broker := sse.NewBroker(0)
	defer broker.Close()
	ch := broker.Subscribe()

	state := spotify.NowPlaying{IsPlaying: true}
	p := NewPoller(time.Hour, broker, Sources{
		NowPlaying: func(ctx context.Context) (spotify.NowPlaying, error) {
			return state, nil
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	p.tick(ctx)

	select {
	case msg := <-ch:
		if !strings.Contains(string(msg), "nowplaying.updated") {
			t.Errorf("msg = %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("expected initial publish")
	}

	// Same state: no event.
	p.tick(ctx)
	select {
	case msg := <-ch:
		t.Fatalf("unexpected event for unchanged state: %q", msg)
	case <-time.After(100 * time.Millisecond):
	}

	// Changed state: publish again.
	state = spotify.NowPlaying{IsPlaying: false}
	p.tick(ctx)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected publish on change")
	}
}

func TestTickSurvivesFetchErrors(t *testing.T) {
	broker := sse.NewBroker(0)
	defer broker.Close()

	p := NewPoller(time.Hour, broker, Sources{
		NowPlaying: func(ctx context.Context) (spotify.NowPlaying, error) {
			return spotify.NowPlaying{}, errors.New("down")
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Must not panic or publish.
	p.tick(context.Background())
	if p.lastPlaying != nil {
		t.Error("failed fetch should not record state")
	}
}
