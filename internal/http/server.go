// README: UI-facing API server; registers routes and delegates to the engine and gateway.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ridepool/internal/gateway"
	"ridepool/internal/maps"
	"ridepool/internal/modules/notify"
	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

// Engine is the slice of the sync engine the API consumes.
type Engine interface {
	Mine() []requests.RideRequest
	Incoming() []requests.RideRequest
	ElapsedMap() map[types.ID]string
	Subscribe(ctx context.Context) (<-chan notify.Record, func())
	Refresh(ctx context.Context)
}

// Gateway covers the proxied remote calls.
type Gateway interface {
	ListRides(ctx context.Context) ([]requests.Ride, error)
	CreateRequest(ctx context.Context, viewer types.ID, cmd gateway.CreateRequestCommand) (requests.RideRequest, error)
	UpdateRequestStatus(ctx context.Context, id types.ID, status requests.Status) error
}

type Journal interface {
	All(ctx context.Context) ([]notify.Record, error)
	Undelivered(ctx context.Context) ([]notify.Record, error)
	MarkDelivered(ctx context.Context, id string) error
}

// Places is nil when no API key is configured; autocomplete then degrades
// to an empty list.
type Places interface {
	Autocomplete(ctx context.Context, input string) ([]maps.Suggestion, error)
}

type ServerDeps struct {
	Engine  Engine
	Gateway Gateway
	Journal Journal
	Places  Places
	Viewer  types.ID
	Log     *slog.Logger
}

type Server struct {
	engine  Engine
	gateway Gateway
	journal Journal
	places  Places
	viewer  types.ID
	log     *slog.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		engine:  deps.Engine,
		gateway: deps.Gateway,
		journal: deps.Journal,
		places:  deps.Places,
		viewer:  deps.Viewer,
		log:     deps.Log,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	api := r.Group("/api")
	api.GET("/requests/mine", s.listMine)
	api.GET("/requests/incoming", s.listIncoming)
	api.GET("/requests/elapsed", s.elapsedMap)
	api.PUT("/requests/:id", s.updateRequest)
	api.GET("/notifications", s.listNotifications)
	api.POST("/notifications/:id/delivered", s.markDelivered)
	api.GET("/rides", s.listRides)
	api.POST("/rides/:id/request", s.createRequest)
	api.GET("/places/autocomplete", s.autocomplete)

	r.GET("/ws/notifications", s.streamNotifications)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
