package timetrack

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for time tracking.
type Handler struct {
	service *Service
}

// NewHandler creates a new time tracking handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers time tracking routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	t := r.Group("/time-entries")
	{
		t.GET("", h.List)
		t.POST("", h.AddManual)
		t.POST("/start", h.Start)
		t.POST("/stop", h.Stop)
		t.DELETE("/:id", h.Delete)
	}
}

// Start opens a work timer.
//
//	@Summary	Start timer
//	@Tags		TimeTracking
//	@Accept		json
//	@Produce	json
//	@Param		request	body		StartRequest	false	"Timer"
//	@Success	201		{object}	TimeEntry
//	@Failure	409		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/time-entries/start [post]
func (h *Handler) Start(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req StartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	entry, err := h.service.Start(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Stop closes the running timer.
//
//	@Summary	Stop timer
//	@Tags		TimeTracking
//	@Produce	json
//	@Success	200	{object}	TimeEntry
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/time-entries/stop [post]
func (h *Handler) Stop(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	entry, err := h.service.Stop(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// AddManual records a finished session after the fact.
//
//	@Summary	Add manual time entry
//	@Tags		TimeTracking
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ManualEntryRequest	true	"Entry"
//	@Success	201		{object}	TimeEntry
//	@Failure	400		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/time-entries [post]
func (h *Handler) AddManual(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.AddManual(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List returns the caller's time entries.
//
//	@Summary	List time entries
//	@Tags		TimeTracking
//	@Produce	json
//	@Success	200	{array}	TimeEntry
//	@Security	BearerAuth
//	@Router		/time-entries [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	entries, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if entries == nil {
		entries = []*TimeEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// Delete removes a time entry.
//
//	@Summary	Delete time entry
//	@Tags		TimeTracking
//	@Param		id	path	string	true	"Entry ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/time-entries/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrEntryNotFound, Status: http.StatusNotFound},
		{Err: ErrNoRunningTimer, Status: http.StatusNotFound},
		{Err: ErrTimerRunning, Status: http.StatusConflict},
		{Err: ErrInvalidDuration, Status: http.StatusBadRequest},
	})
}
