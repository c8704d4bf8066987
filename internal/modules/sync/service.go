// README: Sync engine; owns the pollers and runs the refresh cycle end to end.
package sync

import (
	"context"
	"log/slog"
	stdsync "sync"
	"time"

	"ridepool/internal/modules/notify"
	"ridepool/internal/modules/requests"
	"ridepool/internal/observability"
	"ridepool/internal/types"
)

type Gateway interface {
	ListRides(ctx context.Context) ([]requests.Ride, error)
	ListRequests(ctx context.Context) ([]requests.RideRequest, error)
}

type Enricher interface {
	Enrich(ctx context.Context, reqs []requests.RideRequest) []requests.RideRequest
}

type Journal interface {
	Record(ctx context.Context, ev requests.TransitionEvent) (notify.Record, error)
	Undelivered(ctx context.Context) ([]notify.Record, error)
	MarkDelivered(ctx context.Context, id string) error
}

// Engine keeps the viewer's request partitions consistent with the polled
// gateway. Two independent pollers drive it: a slow status tick running the
// full refresh cycle and a fast tick recomputing elapsed-time strings.
type Engine struct {
	gw       Gateway
	enricher Enricher
	journal  Journal
	rec      *Reconciler
	viewer   types.ID
	log      *slog.Logger
	now      func() time.Time

	statusPoll  *Poller
	elapsedPoll *Poller

	mu       stdsync.Mutex
	loading  bool
	mine     []requests.RideRequest
	incoming []requests.RideRequest
	// last successfully fetched ride index; reused when a rides fetch
	// fails so the owner partition does not collapse on a blip
	rideIndex map[types.ID]requests.Ride
	elapsed   map[types.ID]string
	subs      map[int]chan notify.Record
	nextSub   int
}

func NewEngine(gw Gateway, enricher Enricher, journal Journal, viewer types.ID,
	statusTick, elapsedTick time.Duration, log *slog.Logger) *Engine {

	e := &Engine{
		gw:        gw,
		enricher:  enricher,
		journal:   journal,
		rec:       NewReconciler(),
		viewer:    viewer,
		log:       log,
		now:       time.Now,
		rideIndex: map[types.ID]requests.Ride{},
		elapsed:   map[types.ID]string{},
		subs:      map[int]chan notify.Record{},
	}
	e.statusPoll = NewPoller("status", statusTick, e.Refresh, log)
	e.elapsedPoll = NewPoller("elapsed", elapsedTick, e.tick, log)
	return e
}

// Start replays the undelivered backlog through the notification path and
// begins both cadences. Replay before polling guarantees a transition that
// happened while the engine was down is surfaced at least once.
func (e *Engine) Start(ctx context.Context) {
	backlog, err := e.journal.Undelivered(ctx)
	if err == nil {
		for _, rec := range backlog {
			e.publish(rec)
		}
		if len(backlog) > 0 {
			e.log.Info("replayed undelivered notifications", "count", len(backlog))
		}
	}
	e.statusPoll.Start(ctx)
	e.elapsedPoll.Start(ctx)
}

func (e *Engine) Stop() {
	e.statusPoll.Stop()
	e.elapsedPoll.Stop()
}

// Refresh runs one reconciliation cycle. The loading flag skips redundant
// cycles when the previous fetch is still in flight; correctness does not
// depend on it, the reconciler's diff is idempotent either way.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	if e.loading {
		e.mu.Unlock()
		e.log.Debug("refresh skipped, previous cycle still in flight")
		return
	}
	e.loading = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	reqs, err := e.gw.ListRequests(ctx)
	if err != nil {
		// Skip the whole cycle: the snapshot stays untouched and the next
		// successful poll diffs against the last observed state.
		observability.PollFailuresTotal.Inc()
		e.log.Warn("requests fetch failed, keeping last known state", "err", err)
		return
	}

	for _, ev := range e.rec.Reconcile(reqs) {
		observability.TransitionsTotal.Inc()
		rec, err := e.journal.Record(ctx, ev)
		if err != nil {
			// Journal already reported it; the in-memory notification
			// still goes out.
			e.log.Debug("transition journaling degraded", "request_id", string(ev.RequestID))
		}
		e.publish(rec)
	}

	rideIndex := e.lastRideIndex()
	if rides, err := e.gw.ListRides(ctx); err == nil {
		rideIndex = make(map[types.ID]requests.Ride, len(rides))
		for _, r := range rides {
			rideIndex[r.ID] = r
		}
	} else {
		e.log.Warn("rides fetch failed, partitioning against cached rides", "err", err)
	}

	enriched := e.enricher.Enrich(ctx, reqs)
	mine, incoming := requests.Partition(e.viewer, enriched, rideIndex)

	e.mu.Lock()
	e.mine, e.incoming = mine, incoming
	e.rideIndex = rideIndex
	e.recomputeElapsedLocked()
	e.mu.Unlock()

	observability.PollCyclesTotal.Inc()
}

// tick recomputes elapsed-time strings without touching the network.
func (e *Engine) tick(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recomputeElapsedLocked()
}

func (e *Engine) recomputeElapsedLocked() {
	now := e.now()
	m := make(map[types.ID]string)
	for _, part := range [][]requests.RideRequest{e.mine, e.incoming} {
		for _, req := range part {
			if req.Status == requests.StatusPending {
				m[req.ID] = requests.Elapsed(now, req.CreatedAt)
			}
		}
	}
	e.elapsed = m
}

// Mine returns the viewer's own requests from the last completed cycle.
func (e *Engine) Mine() []requests.RideRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]requests.RideRequest(nil), e.mine...)
}

// Incoming returns requests against rides the viewer owns.
func (e *Engine) Incoming() []requests.RideRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]requests.RideRequest(nil), e.incoming...)
}

// ElapsedMap returns the current request-ID → elapsed-string view.
func (e *Engine) ElapsedMap() map[types.ID]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := make(map[types.ID]string, len(e.elapsed))
	for k, v := range e.elapsed {
		m[k] = v
	}
	return m
}

// Subscribe registers a notification consumer. The undelivered backlog is
// queued first so a UI that reconnects after downtime still sees every
// unacknowledged transition. The returned cancel func is idempotent.
func (e *Engine) Subscribe(ctx context.Context) (<-chan notify.Record, func()) {
	ch := make(chan notify.Record, 16)

	backlog, err := e.journal.Undelivered(ctx)
	if err == nil {
		for _, rec := range backlog {
			select {
			case ch <- rec:
			default:
			}
		}
	}

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.mu.Unlock()

	var once stdsync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish fans a record out to all subscribers without blocking the poll
// cycle; a full subscriber channel drops the push, the journal replay on
// reconnect covers the gap.
func (e *Engine) publish(rec notify.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

func (e *Engine) lastRideIndex() map[types.ID]requests.Ride {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rideIndex
}
