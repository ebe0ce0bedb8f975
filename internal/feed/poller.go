package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/mariusvb/commitfeed/internal/github"
)

// Poller drives Refresh on a fixed interval when the program runs without
// the TUI: one cycle at startup, then one per tick until the context is
// canceled. Failed cycles are logged and the next attempt is strictly the
// next tick; there is no retry or backoff.
type Poller struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger
	onCycle  func(entries []github.Commit, err error)
}

func NewPoller(svc *Service, interval time.Duration, logger *slog.Logger, onCycle func([]github.Commit, error)) *Poller {
	return &Poller{svc: svc, interval: interval, logger: logger, onCycle: onCycle}
}

func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval)

	p.cycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return nil
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	entries, err := p.svc.Refresh(ctx)
	switch {
	case ctx.Err() != nil:
		return
	case err != nil:
		p.logger.Error("poll cycle failed", "err", err)
	default:
		p.logger.Info("poll cycle complete", "entries", len(entries))
	}

	if p.onCycle != nil {
		p.onCycle(entries, err)
	}
}
