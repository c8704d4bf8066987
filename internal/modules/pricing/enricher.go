// README: Price enrichment attaches ride prices to request records via concurrent lookups.
package pricing

import (
	"context"
	"log/slog"
	"sync"

	"ridepool/internal/modules/requests"
	"ridepool/internal/observability"
	"ridepool/internal/types"
)

// RideSource is the lookup the enricher fans out over; satisfied by the
// gateway client.
type RideSource interface {
	GetRide(ctx context.Context, id types.ID) (requests.Ride, error)
}

type Enricher struct {
	rides RideSource
	log   *slog.Logger
}

func NewEnricher(rides RideSource, log *slog.Logger) *Enricher {
	return &Enricher{rides: rides, log: log}
}

// Enrich issues one ride lookup per request and copies the ride price onto
// the request. Lookups run concurrently and independently: a failed lookup
// leaves that request's price unset and never fails the batch. The result
// preserves the input's length and order regardless of completion order.
func (e *Enricher) Enrich(ctx context.Context, reqs []requests.RideRequest) []requests.RideRequest {
	out := make([]requests.RideRequest, len(reqs))
	copy(out, reqs)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ride, err := e.rides.GetRide(ctx, out[i].RideID)
			if err != nil {
				observability.EnrichFailuresTotal.Inc()
				e.log.Debug("price lookup failed",
					"request_id", string(out[i].ID),
					"ride_id", string(out[i].RideID),
					"err", err)
				return
			}
			price := ride.Price
			out[i].Price = &price
		}(i)
	}
	wg.Wait()
	return out
}
