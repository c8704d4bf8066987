// README: Notification record persisted by the journal.
package notify

import (
	"time"

	"ridepool/internal/types"
)

type Kind string

const KindRequestApproved Kind = "request_approved"

// Record is one journaled notification. Delivered is the sole gate against
// re-surfacing: records are never removed when acknowledged, only pruned
// later by retention.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	RequestID types.ID  `json:"requestId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"createdAt"`
	Delivered bool      `json:"delivered"`
}
