// README: Canonical ride and ride-request records plus status definitions.
package requests

import (
	"time"

	"ridepool/internal/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether a status admits no further transitions on this
// side. The gateway never reverses approved or rejected.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// RideRequest is the canonical request record. The gateway normalizes its
// wire shapes into this one; no other package deals with field aliases.
type RideRequest struct {
	ID          types.ID `json:"id"`
	RideID      types.ID `json:"rideId"`
	RequesterID types.ID `json:"requesterId"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Passengers  int      `json:"passengers"`
	Notes       string   `json:"notes,omitempty"`
	Status      Status   `json:"status"`
	// Price is attached by enrichment from the associated ride; zero when
	// the lookup failed or has not run.
	Price     *float64  `json:"price,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ride struct {
	ID          types.ID `json:"id"`
	OwnerID     types.ID `json:"ownerId"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Seats       int      `json:"seats"`
	Price       float64  `json:"price"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
}

// TransitionEvent is a detected status change between two poll cycles.
type TransitionEvent struct {
	RequestID types.ID
	From      string
	To        string
}
