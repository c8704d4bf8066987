package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepool/internal/gateway"
	"ridepool/internal/logging"
	"ridepool/internal/modules/notify"
	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

type stubEngine struct {
	mine      []requests.RideRequest
	incoming  []requests.RideRequest
	elapsed   map[types.ID]string
	refreshed atomic.Int32
}

func (s *stubEngine) Mine() []requests.RideRequest     { return s.mine }
func (s *stubEngine) Incoming() []requests.RideRequest { return s.incoming }
func (s *stubEngine) ElapsedMap() map[types.ID]string  { return s.elapsed }
func (s *stubEngine) Refresh(context.Context)          { s.refreshed.Add(1) }
func (s *stubEngine) Subscribe(context.Context) (<-chan notify.Record, func()) {
	ch := make(chan notify.Record)
	return ch, func() { close(ch) }
}

type stubGateway struct {
	rides      []requests.Ride
	ridesErr   error
	updated    map[types.ID]requests.Status
	updateErr  error
	createdCmd *gateway.CreateRequestCommand
}

func (s *stubGateway) ListRides(context.Context) ([]requests.Ride, error) {
	return s.rides, s.ridesErr
}

func (s *stubGateway) CreateRequest(_ context.Context, viewer types.ID, cmd gateway.CreateRequestCommand) (requests.RideRequest, error) {
	s.createdCmd = &cmd
	return requests.RideRequest{ID: "new", RideID: cmd.RideID, RequesterID: viewer, Status: requests.StatusPending}, nil
}

func (s *stubGateway) UpdateRequestStatus(_ context.Context, id types.ID, status requests.Status) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updated == nil {
		s.updated = map[types.ID]requests.Status{}
	}
	s.updated[id] = status
	return nil
}

type stubJournal struct {
	all       []notify.Record
	delivered []string
}

func (s *stubJournal) All(context.Context) ([]notify.Record, error) { return s.all, nil }
func (s *stubJournal) Undelivered(context.Context) ([]notify.Record, error) {
	var out []notify.Record
	for _, r := range s.all {
		if !r.Delivered {
			out = append(out, r)
		}
	}
	return out, nil
}
func (s *stubJournal) MarkDelivered(_ context.Context, id string) error {
	s.delivered = append(s.delivered, id)
	return nil
}

func newTestServer(engine *stubEngine, gw *stubGateway, journal *stubJournal) http.Handler {
	return NewServer(ServerDeps{
		Engine:  engine,
		Gateway: gw,
		Journal: journal,
		Viewer:  "me",
		Log:     logging.NewLogger("error"),
	}).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListMineAndIncoming(t *testing.T) {
	engine := &stubEngine{
		mine:     []requests.RideRequest{{ID: "q1", Status: requests.StatusPending}},
		incoming: []requests.RideRequest{{ID: "q2", Status: requests.StatusPending}},
	}
	h := newTestServer(engine, &stubGateway{}, &stubJournal{})

	w := doRequest(t, h, http.MethodGet, "/api/requests/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"q1"`)
	assert.NotContains(t, w.Body.String(), `"q2"`)

	w = doRequest(t, h, http.MethodGet, "/api/requests/incoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"q2"`)
}

func TestListMineEmptyIsJSONArray(t *testing.T) {
	h := newTestServer(&stubEngine{}, &stubGateway{}, &stubJournal{})
	w := doRequest(t, h, http.MethodGet, "/api/requests/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUpdateRequestValidation(t *testing.T) {
	gw := &stubGateway{}
	h := newTestServer(&stubEngine{}, gw, &stubJournal{})

	w := doRequest(t, h, http.MethodPut, "/api/requests/q1", `{"status":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, h, http.MethodPut, "/api/requests/q1", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, gw.updated)
}

func TestUpdateRequestProxiesAndPropagatesFailure(t *testing.T) {
	gw := &stubGateway{}
	engine := &stubEngine{}
	h := newTestServer(engine, gw, &stubJournal{})

	w := doRequest(t, h, http.MethodPut, "/api/requests/q1", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, requests.StatusApproved, gw.updated["q1"])

	gw.updateErr = gateway.ErrUnavailable
	w = doRequest(t, h, http.MethodPut, "/api/requests/q2", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	gw.updateErr = gateway.ErrNotFound
	w = doRequest(t, h, http.MethodPut, "/api/requests/q3", `{"status":"rejected"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRidesDegradesToEmptyOnGatewayFailure(t *testing.T) {
	gw := &stubGateway{ridesErr: errors.New("down")}
	h := newTestServer(&stubEngine{}, gw, &stubJournal{})

	w := doRequest(t, h, http.MethodGet, "/api/rides", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestCreateRequestProxies(t *testing.T) {
	gw := &stubGateway{}
	h := newTestServer(&stubEngine{}, gw, &stubJournal{})

	w := doRequest(t, h, http.MethodPost, "/api/rides/r1/request",
		`{"from":"Austin","to":"Dallas","passengers":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, gw.createdCmd)
	assert.Equal(t, types.ID("r1"), gw.createdCmd.RideID)
	assert.Equal(t, 2, gw.createdCmd.Passengers)

	w = doRequest(t, h, http.MethodPost, "/api/rides/r1/request", `{"from":"Austin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	journal := &stubJournal{all: []notify.Record{
		{ID: "n1", RequestID: "q1", Delivered: true},
		{ID: "n2", RequestID: "q2"},
	}}
	h := newTestServer(&stubEngine{}, &stubGateway{}, journal)

	w := doRequest(t, h, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n1"`)
	assert.Contains(t, w.Body.String(), `"n2"`)

	w = doRequest(t, h, http.MethodGet, "/api/notifications?undelivered=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"n1"`)
	assert.Contains(t, w.Body.String(), `"n2"`)

	w = doRequest(t, h, http.MethodPost, "/api/notifications/n2/delivered", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"n2"}, journal.delivered)
}

func TestAutocompleteWithoutPlacesDegrades(t *testing.T) {
	h := newTestServer(&stubEngine{}, &stubGateway{}, &stubJournal{})
	w := doRequest(t, h, http.MethodGet, "/api/places/autocomplete?q=aus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
