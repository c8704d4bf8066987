// README: Status snapshot diffing; turns poll results into transition events.
package sync

import (
	"sync"

	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

// Reconciler holds the last-observed status per request ID and diffs each
// successful fetch against it. The diff is idempotent: feeding the same
// fetch twice emits nothing the second time, so overlapping poll cycles
// cannot duplicate notifications.
type Reconciler struct {
	mu   sync.Mutex
	seen map[types.ID]requests.Status
}

func NewReconciler() *Reconciler {
	return &Reconciler{seen: map[types.ID]requests.Status{}}
}

// Reconcile diffs fresh records against the snapshot and replaces it.
//   - first sighting seeds silently, whatever the status
//   - pending → approved emits one transition event
//   - pending → rejected is silent: rejection is surfaced synchronously at
//     the point the owner acted, not via polling
//   - requests missing from the fetch are dropped (deleted upstream)
//
// Callers must not invoke this with a failed fetch's empty result; skipping
// the cycle keeps the snapshot intact so the next successful poll diffs
// against the last truly observed state.
func (r *Reconciler) Reconcile(fresh []requests.RideRequest) []requests.TransitionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []requests.TransitionEvent
	next := make(map[types.ID]requests.Status, len(fresh))
	for _, req := range fresh {
		prev, known := r.seen[req.ID]
		if known && prev == requests.StatusPending && req.Status == requests.StatusApproved {
			events = append(events, requests.TransitionEvent{
				RequestID: req.ID,
				From:      req.From,
				To:        req.To,
			})
		}
		next[req.ID] = req.Status
	}
	r.seen = next
	return events
}

// Size reports how many requests the snapshot currently tracks.
func (r *Reconciler) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
