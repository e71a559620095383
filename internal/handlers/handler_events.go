package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/middleware"
)

const defaultHeartbeat = 25 * time.Second

// eventsHandler streams data-changed events so open views can refresh their balances.
type eventsHandler struct {
	events    portssvc.EventsSvc
	heartbeat time.Duration
}

// RegisterEventRoutes registers the server-sent events route.
func RegisterEventRoutes(rg *gin.RouterGroup, events portssvc.EventsSvc) {
	registerEventRoutes(rg, events, defaultHeartbeat)
}

func registerEventRoutes(rg *gin.RouterGroup, events portssvc.EventsSvc, heartbeat time.Duration) {
	h := &eventsHandler{events: events, heartbeat: heartbeat}
	rg.GET("/events", h.streamEvents)
}

func startEventStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
}

// streamEvents godoc
// @Summary Stream data-changed events
// @Description Server-sent events named "change" with {date, type} after every ledger mutation, plus periodic "ping" events. The token may be passed as access_token.
// @Tags events
// @Produce text/event-stream
// @Success 200 {object} domain.DataChanged
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /events [get]
func (h *eventsHandler) streamEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	changes, cancel := h.events.Subscribe(userID)
	defer cancel()

	startEventStream(c)
	c.SSEvent("ready", gin.H{"userId": userID})
	c.Writer.Flush()
	logger.Info("Event stream opened")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Event stream closed by client")
			return
		case change, open := <-changes:
			if !open {
				return
			}
			c.SSEvent("change", change)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC().Format(time.RFC3339)})
			c.Writer.Flush()
			logger.Debug("Event stream heartbeat", slog.String("user_id", userID))
		}
	}
}
