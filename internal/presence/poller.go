// Package presence polls playback and Discord presence in the background and
// pushes changes to the SSE broker.
package presence

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/mkeller/folio/internal/integrations/lanyard"
	"github.com/mkeller/folio/internal/integrations/spotify"
	"github.com/mkeller/folio/internal/sse"
)

// Sources provides the cached fetch functions the poller reads from. Either
// may be nil when the corresponding integration is disabled.
type Sources struct {
	NowPlaying func(ctx context.Context) (spotify.NowPlaying, error)
	Presence   func(ctx context.Context) (lanyard.Presence, error)
}

// Poller periodically reads both sources and publishes on change.
type Poller struct {
	interval time.Duration
	broker   *sse.Broker
	sources  Sources
	logger   *slog.Logger

	lastPlaying  *spotify.NowPlaying
	lastPresence *lanyard.Presence
}

// NewPoller creates a Poller. Interval defaults to 30 seconds.
func NewPoller(interval time.Duration, broker *sse.Broker, sources Sources, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{interval: interval, broker: broker, sources: sources, logger: logger}
}

// Run polls until ctx is cancelled. Fetch failures are logged and skipped;
// the poller never stops on upstream errors.
func (p *Poller) Run(ctx context.Context) error {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.sources.NowPlaying != nil {
		np, err := p.sources.NowPlaying(ctx)
		switch {
		case err != nil:
			p.logger.Debug("presence: now-playing poll failed", slog.String("error", err.Error()))
		case p.lastPlaying == nil || !reflect.DeepEqual(*p.lastPlaying, np):
			p.lastPlaying = &np
			p.broker.PublishNowPlaying(np)
		}
	}

	if p.sources.Presence != nil {
		pr, err := p.sources.Presence(ctx)
		switch {
		case err != nil:
			p.logger.Debug("presence: lanyard poll failed", slog.String("error", err.Error()))
		case p.lastPresence == nil || !reflect.DeepEqual(*p.lastPresence, pr):
			p.lastPresence = &pr
			p.broker.PublishPresence(pr)
		}
	}
}
