// README: Gateway wire formats and their normalization into canonical records.
package gateway

import (
	"time"

	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

// The gateway grew organically and serves the same fields under different
// names depending on the endpoint (`from` vs `origin`, `seats` vs
// `availableSeats`, `driver` vs `driverId`). Both spellings are decoded
// here and nowhere else; every consumer sees the canonical shape.

type rideWire struct {
	ID             string  `json:"id"`
	Driver         string  `json:"driver"`
	DriverID       string  `json:"driverId"`
	From           string  `json:"from"`
	Origin         string  `json:"origin"`
	To             string  `json:"to"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Seats          int     `json:"seats"`
	AvailableSeats int     `json:"availableSeats"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
}

func (w rideWire) normalize() requests.Ride {
	return requests.Ride{
		ID:          types.ID(w.ID),
		OwnerID:     types.ID(firstNonEmpty(w.DriverID, w.Driver)),
		From:        firstNonEmpty(w.From, w.Origin),
		To:          firstNonEmpty(w.To, w.Destination),
		Date:        w.Date,
		Time:        w.Time,
		Seats:       firstNonZero(w.Seats, w.AvailableSeats),
		Price:       w.Price,
		Description: w.Description,
		Status:      w.Status,
	}
}

type requestWire struct {
	ID              string   `json:"id"`
	RideID          string   `json:"rideId"`
	PassengerID     string   `json:"passengerId"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	PickupLocation  string   `json:"pickupLocation"`
	DropoffLocation string   `json:"dropoffLocation"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Passengers      int      `json:"passengers"`
	SpecialRequests string   `json:"specialRequests"`
	Status          string   `json:"status"`
	Price           *float64 `json:"price"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func (w requestWire) normalize() requests.RideRequest {
	return requests.RideRequest{
		ID:          types.ID(w.ID),
		RideID:      types.ID(w.RideID),
		RequesterID: types.ID(w.PassengerID),
		From:        firstNonEmpty(w.From, w.PickupLocation),
		To:          firstNonEmpty(w.To, w.DropoffLocation),
		Date:        w.Date,
		Time:        w.Time,
		Passengers:  w.Passengers,
		Notes:       w.SpecialRequests,
		Status:      requests.Status(w.Status),
		Price:       w.Price,
		CreatedAt:   parseTimestamp(w.CreatedAt),
		UpdatedAt:   parseTimestamp(w.UpdatedAt),
	}
}

// parseTimestamp returns the zero time for anything it cannot read; the
// elapsed presenter renders zero as an empty string instead of failing.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
