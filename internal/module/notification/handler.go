package notification

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ticketflow/server/internal/shared/metrics"
	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for notifications.
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers notification routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	n := r.Group("/notifications")
	{
		n.GET("", h.List)
		n.GET("/unread-count", h.UnreadCount)
		n.GET("/stream", h.Stream)
		n.PATCH("/read-all", h.MarkAllRead)
		n.PATCH("/:id/read", h.MarkRead)
		n.DELETE("/:id", h.Delete)
		n.DELETE("", h.Clear)
	}
}

// List returns the caller's notifications, newest first.
//
//	@Summary	List notifications
//	@Tags		Notifications
//	@Produce	json
//	@Success	200	{array}	Notification
//	@Security	BearerAuth
//	@Router		/notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	items, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if items == nil {
		items = []*Notification{}
	}

	c.JSON(http.StatusOK, items)
}

// UnreadCount returns the caller's unread notification count.
//
//	@Summary	Unread notification count
//	@Tags		Notifications
//	@Produce	json
//	@Success	200	{object}	UnreadCountResponse
//	@Security	BearerAuth
//	@Router		/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkRead marks a single notification as read.
//
//	@Summary	Mark notification read
//	@Tags		Notifications
//	@Param		id	path	string	true	"Notification ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/notifications/{id}/read [patch]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead marks all of the caller's notifications as read.
//
//	@Summary	Mark all notifications read
//	@Tags		Notifications
//	@Success	204
//	@Security	BearerAuth
//	@Router		/notifications/read-all [patch]
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a single notification.
//
//	@Summary	Delete notification
//	@Tags		Notifications
//	@Param		id	path	string	true	"Notification ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/notifications/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Clear removes all of the caller's notifications.
//
//	@Summary	Clear notifications
//	@Tags		Notifications
//	@Success	204
//	@Security	BearerAuth
//	@Router		/notifications [delete]
func (h *Handler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Clear(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stream pushes the caller's notifications over Server-Sent Events.
// EventSource cannot set headers, so the auth middleware also accepts
// the access token as a query parameter on this route.
//
//	@Summary	Notification stream
//	@Tags		Notifications
//	@Produce	text/event-stream
//	@Success	200
//	@Security	BearerAuth
//	@Router		/notifications/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ctx := c.Request.Context()
	sub, err := h.service.Subscribe(ctx, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer sub.Close()

	cfg := h.service.StreamConfig()
	msgs := sub.Channel(redis.WithChannelSize(cfg.ClientBuffer))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	metrics.Default.StreamSubscribers.Inc()
	defer metrics.Default.StreamSubscribers.Dec()

	heartbeat := time.NewTicker(cfg.HeartbeatPeriod)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-msgs:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "event: notification\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()
			metrics.Default.StreamEventsTotal.WithLabelValues("delivered").Inc()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
			metrics.Default.StreamEventsTotal.WithLabelValues("heartbeat").Inc()
		}
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrNotificationNotFound, Status: http.StatusNotFound},
		{Err: ErrStreamUnavailable, Status: http.StatusServiceUnavailable},
	})
}
