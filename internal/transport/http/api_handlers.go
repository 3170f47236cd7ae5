package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/dispatch"
)

// snapshotter is the part of the hub the monitoring API reads from.
type snapshotter interface {
	Snapshot(ctx context.Context) (dispatch.Snapshot, error)
}

// APIHandlers serves read-only views of the chat state.
type APIHandlers struct {
	hub snapshotter
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub snapshotter, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub: hub,
		log: logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UsersResponse lists registered nicknames.
type UsersResponse struct {
	Users []string `json:"users"`
}

// ChannelResponse represents a channel in API responses.
type ChannelResponse struct {
	Name    string   `json:"name"`
	Owner   string   `json:"owner"`
	Private bool     `json:"private"`
	Members []string `json:"members"`
}

// StatsResponse summarises the hub.
type StatsResponse struct {
	Clients  int    `json:"clients"`
	Users    int    `json:"users"`
	Channels int    `json:"channels"`
	Dropped  uint64 `json:"dropped_events"`
}

// ListUsers returns every registered nickname, sorted.
// GET /api/users
func (h *APIHandlers) ListUsers(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, UsersResponse{Users: snap.Users})
}

// ListChannels returns every channel ordered by name.
// GET /api/channels
func (h *APIHandlers) ListChannels(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	response := make([]ChannelResponse, 0, len(snap.Channels))
	for _, ch := range snap.Channels {
		response = append(response, channelResponse(ch))
	}
	c.JSON(http.StatusOK, response)
}

// GetChannel returns one channel.
// GET /api/channels/:name
func (h *APIHandlers) GetChannel(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	name := c.Param("name")
	for _, ch := range snap.Channels {
		if ch.Name == name {
			c.JSON(http.StatusOK, channelResponse(ch))
			return
		}
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such channel"})
}

// Stats returns connection and drop counters.
// GET /api/stats
func (h *APIHandlers) Stats(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		Clients:  snap.Clients,
		Users:    len(snap.Users),
		Channels: len(snap.Channels),
		Dropped:  snap.Dropped,
	})
}

func (h *APIHandlers) snapshot(c *gin.Context) (dispatch.Snapshot, bool) {
	snap, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("hub snapshot failed")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "server unavailable"})
		return dispatch.Snapshot{}, false
	}
	return snap, true
}
