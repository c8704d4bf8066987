// README: Durable notification journal with at-least-once delivery across restarts.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ridepool/internal/modules/requests"
	"ridepool/internal/observability"
)

// Journal appends notification records to a single persisted key. Every
// mutation is a full load-append-store sequence under one mutex, so a
// process interruption can only lose the in-flight mutation, never
// previously stored entries.
type Journal struct {
	kv        KV
	key       string
	retention time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu sync.Mutex
	// persistence failures are surfaced once, then demoted to debug so a
	// broken store does not flood the log on every tick
	persistFailed bool
}

func NewJournal(kv KV, key string, retention time.Duration, log *slog.Logger) *Journal {
	return &Journal{kv: kv, key: key, retention: retention, log: log, now: time.Now}
}

// Record appends an undelivered record for the transition and returns it.
// The record is returned even when persistence fails: the immediate
// notification path keeps working with durable replay degraded.
func (j *Journal) Record(ctx context.Context, ev requests.TransitionEvent) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      KindRequestApproved,
		RequestID: ev.RequestID,
		From:      ev.From,
		To:        ev.To,
		CreatedAt: j.now().UTC(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	entries, err := j.load(ctx)
	if err != nil {
		j.reportPersistError("journal load", err)
		return rec, err
	}
	entries = append(entries, rec)
	if err := j.store(ctx, entries); err != nil {
		j.reportPersistError("journal append", err)
		return rec, err
	}
	j.updateGauge(entries)
	return rec, nil
}

// Undelivered returns every record not yet acknowledged, oldest first.
func (j *Journal) Undelivered(ctx context.Context) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	entries, err := j.load(ctx)
	if err != nil {
		j.reportPersistError("journal load", err)
		return nil, err
	}
	var out []Record
	for _, rec := range entries {
		if !rec.Delivered {
			out = append(out, rec)
		}
	}
	return out, nil
}

// All returns the full retained log, oldest first.
func (j *Journal) All(ctx context.Context) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	entries, err := j.load(ctx)
	if err != nil {
		j.reportPersistError("journal load", err)
		return nil, err
	}
	return entries, nil
}

// MarkDelivered flips the delivered flag and persists. Unknown IDs are a
// no-op; an already-delivered record stays delivered.
func (j *Journal) MarkDelivered(ctx context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	entries, err := j.load(ctx)
	if err != nil {
		j.reportPersistError("journal load", err)
		return err
	}
	changed := false
	for i := range entries {
		if entries[i].ID == id && !entries[i].Delivered {
			entries[i].Delivered = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := j.store(ctx, entries); err != nil {
		j.reportPersistError("journal mark delivered", err)
		return err
	}
	j.updateGauge(entries)
	return nil
}

// load reads and decodes the full log, applying retention: delivered
// records older than the window are dropped; undelivered records are kept
// forever so a long-offline user still sees them.
func (j *Journal) load(ctx context.Context) ([]Record, error) {
	raw, err := j.kv.Get(ctx, j.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []Record
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupt log is unrecoverable; start fresh rather than wedge
		// every future mutation.
		j.log.Warn("journal corrupt, resetting", "key", j.key, "err", err)
		return nil, nil
	}
	if j.retention <= 0 {
		return entries, nil
	}
	cutoff := j.now().Add(-j.retention)
	kept := entries[:0]
	for _, rec := range entries {
		if rec.Delivered && rec.CreatedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}

func (j *Journal) store(ctx context.Context, entries []Record) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return j.kv.Set(ctx, j.key, raw)
}

func (j *Journal) updateGauge(entries []Record) {
	n := 0
	for _, rec := range entries {
		if !rec.Delivered {
			n++
		}
	}
	observability.UndeliveredNotifications.Set(float64(n))
}

func (j *Journal) reportPersistError(op string, err error) {
	if j.persistFailed {
		j.log.Debug(op+" failed", "err", err)
		return
	}
	j.persistFailed = true
	j.log.Error(op+" failed, notifications will not survive restart", "err", err)
}
