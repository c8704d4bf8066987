// README: HTTP client for the remote ride/request gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

var (
	ErrNotFound    = errors.New("gateway: not found")
	ErrUnavailable = errors.New("gateway: unavailable")
)

type Client struct {
	base  string
	token string
	http  *http.Client
	log   *slog.Logger
}

func NewClient(base, token string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: timeout},
		log:   log,
	}
}

func (c *Client) ListRides(ctx context.Context) ([]requests.Ride, error) {
	var wires []rideWire
	if err := c.getJSON(ctx, "/api/rides", &wires); err != nil {
		return nil, err
	}
	rides := make([]requests.Ride, len(wires))
	for i, w := range wires {
		rides[i] = w.normalize()
	}
	return rides, nil
}

func (c *Client) GetRide(ctx context.Context, id types.ID) (requests.Ride, error) {
	var wire rideWire
	if err := c.getJSON(ctx, "/api/rides/"+string(id), &wire); err != nil {
		return requests.Ride{}, err
	}
	return wire.normalize(), nil
}

// ListRequests fetches every request visible to the caller's token. The
// gateway does no viewer filtering; role partitioning happens client-side.
func (c *Client) ListRequests(ctx context.Context) ([]requests.RideRequest, error) {
	var wires []requestWire
	if err := c.getJSON(ctx, "/api/rides/requests", &wires); err != nil {
		return nil, err
	}
	reqs := make([]requests.RideRequest, len(wires))
	for i, w := range wires {
		reqs[i] = w.normalize()
	}
	return reqs, nil
}

type CreateRequestCommand struct {
	RideID     types.ID
	From       string
	To         string
	Date       string
	Time       string
	Passengers int
	Notes      string
}

func (c *Client) CreateRequest(ctx context.Context, viewer types.ID, cmd CreateRequestCommand) (requests.RideRequest, error) {
	body := map[string]any{
		"passengerId":     string(viewer),
		"from":            cmd.From,
		"to":              cmd.To,
		"date":            cmd.Date,
		"time":            cmd.Time,
		"passengers":      cmd.Passengers,
		"specialRequests": cmd.Notes,
	}
	var wire requestWire
	if err := c.doJSON(ctx, http.MethodPost, "/api/rides/"+string(cmd.RideID)+"/request", body, &wire); err != nil {
		return requests.RideRequest{}, err
	}
	return wire.normalize(), nil
}

// UpdateRequestStatus approves or rejects a request. Mutations propagate
// failure so the caller can retry or tell the user.
func (c *Client) UpdateRequestStatus(ctx context.Context, id types.ID, status requests.Status) error {
	body := map[string]any{"status": string(status)}
	return c.doJSON(ctx, http.MethodPut, "/api/rides/requests/"+string(id), body, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("gateway call failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s returned %d", ErrUnavailable, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s: %w", path, err)
	}
	return nil
}
