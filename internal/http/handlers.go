// README: Request, notification, and ride proxy handlers.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridepool/internal/gateway"
	"ridepool/internal/modules/requests"
	"ridepool/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeGatewayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	case errors.Is(err, gateway.ErrUnavailable):
		writeError(c, http.StatusBadGateway, "gateway unavailable")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) listMine(c *gin.Context) {
	reqs := s.engine.Mine()
	if reqs == nil {
		reqs = []requests.RideRequest{}
	}
	c.JSON(http.StatusOK, reqs)
}

func (s *Server) listIncoming(c *gin.Context) {
	reqs := s.engine.Incoming()
	if reqs == nil {
		reqs = []requests.RideRequest{}
	}
	c.JSON(http.StatusOK, reqs)
}

func (s *Server) elapsedMap(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.ElapsedMap())
}

type updateRequestReq struct {
	Status string `json:"status" binding:"required"`
}

// updateRequest proxies approve/reject to the gateway. Mutation failures
// propagate so the UI can retry; a success schedules an immediate refresh
// so the acting owner's view catches up without waiting a full tick.
func (s *Server) updateRequest(c *gin.Context) {
	id := c.Param("id")
	var req updateRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	status := requests.Status(req.Status)
	if status != requests.StatusApproved && status != requests.StatusRejected {
		writeError(c, http.StatusBadRequest, "status must be approved or rejected")
		return
	}
	if err := s.gateway.UpdateRequestStatus(c.Request.Context(), types.ID(id), status); err != nil {
		writeGatewayError(c, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.engine.Refresh(ctx)
	}()
	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (s *Server) listNotifications(c *gin.Context) {
	var (
		recs any
		err  error
	)
	if c.Query("undelivered") == "1" {
		recs, err = s.journal.Undelivered(c.Request.Context())
	} else {
		recs, err = s.journal.All(c.Request.Context())
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "journal unavailable")
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *Server) markDelivered(c *gin.Context) {
	if err := s.journal.MarkDelivered(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, http.StatusInternalServerError, "journal unavailable")
		return
	}
	c.Status(http.StatusNoContent)
}

// listRides degrades to an empty list on gateway failure: a transient
// outage empties the view instead of breaking it.
func (s *Server) listRides(c *gin.Context) {
	rides, err := s.gateway.ListRides(c.Request.Context())
	if err != nil {
		s.log.Warn("rides proxy degraded to empty", "err", err)
		c.JSON(http.StatusOK, []requests.Ride{})
		return
	}
	if rides == nil {
		rides = []requests.Ride{}
	}
	c.JSON(http.StatusOK, rides)
}

type createRequestReq struct {
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Passengers int    `json:"passengers"`
	Notes      string `json:"notes"`
}

func (s *Server) createRequest(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Passengers <= 0 {
		req.Passengers = 1
	}
	created, err := s.gateway.CreateRequest(c.Request.Context(), s.viewer, gateway.CreateRequestCommand{
		RideID:     types.ID(c.Param("id")),
		From:       req.From,
		To:         req.To,
		Date:       req.Date,
		Time:       req.Time,
		Passengers: req.Passengers,
		Notes:      req.Notes,
	})
	if err != nil {
		writeGatewayError(c, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.engine.Refresh(ctx)
	}()
	c.JSON(http.StatusCreated, created)
}

func (s *Server) autocomplete(c *gin.Context) {
	input := c.Query("q")
	if s.places == nil || input == "" {
		c.JSON(http.StatusOK, []any{})
		return
	}
	suggestions, err := s.places.Autocomplete(c.Request.Context(), input)
	if err != nil {
		s.log.Warn("autocomplete degraded to empty", "err", err)
		c.JSON(http.StatusOK, []any{})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
