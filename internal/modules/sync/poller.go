// README: Named repeating task with immediate first fire and re-entrant stop.
package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Poller runs fn immediately on Start and then once per interval until
// stopped. Stop is idempotent, safe before Start, and safe from inside fn
// itself: the mutex is never held while fn runs.
type Poller struct {
	name     string
	interval time.Duration
	fn       func(context.Context)
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewPoller(name string, interval time.Duration, fn func(context.Context), log *slog.Logger) *Poller {
	return &Poller{name: name, interval: interval, fn: fn, log: log}
}

func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Debug("poller started", "name", p.name, "interval", p.interval.String())
	go p.run(runCtx)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
		p.log.Debug("poller stopped", "name", p.name)
	}
}

func (p *Poller) run(ctx context.Context) {
	p.fn(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}
