// README: Google Places autocomplete for the ride form's origin/destination fields.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Suggestion is a simplified autocomplete prediction.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// PlacesService wraps the Places API. The daemon proxies it so the UI
// never holds the API key.
type PlacesService struct {
	client *maps.Client
}

func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Autocomplete returns geocode predictions for a partial address. Failures
// degrade to an empty list; a broken autocomplete box should never block
// the ride form.
func (s *PlacesService) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	if input == "" {
		return nil, nil
	}
	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeGeocode,
	})
	if err != nil {
		return nil, fmt.Errorf("places api: %w", err)
	}
	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}
