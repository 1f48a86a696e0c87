package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/module/project"
	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for tickets and comments.
type Handler struct {
	service *Service
}

// NewHandler creates a new ticket handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers ticket routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/projects/:id/tickets", h.Create)
	r.GET("/projects/:id/tickets", h.List)
	r.GET("/projects/:id/board", h.Board)

	tickets := r.Group("/tickets")
	{
		tickets.GET("/calendar", h.Calendar)
		tickets.GET("/:id", h.Get)
		tickets.PATCH("/:id", h.Update)
		tickets.PATCH("/:id/move", h.Move)
		tickets.DELETE("/:id", h.Delete)
		tickets.POST("/:id/comments", h.AddComment)
		tickets.GET("/:id/comments", h.ListComments)
	}
}

// Create creates a ticket at the bottom of its column.
//
//	@Summary	Create ticket
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Project ID"
//	@Param		request	body		CreateTicketRequest	true	"Ticket"
//	@Success	201		{object}	Ticket
//	@Failure	403		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/tickets [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Create(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// List returns a project's tickets ordered by position.
//
//	@Summary	List tickets
//	@Tags		Tickets
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{array}	Ticket
//	@Security	BearerAuth
//	@Router		/projects/{id}/tickets [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	tickets, err := h.service.List(c.Request.Context(), projectID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if tickets == nil {
		tickets = []*Ticket{}
	}

	c.JSON(http.StatusOK, tickets)
}

// Board returns the project's tickets grouped into status columns.
//
//	@Summary	Board view
//	@Tags		Tickets
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	BoardResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/board [get]
func (h *Handler) Board(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	view, err := h.service.Board(c.Request.Context(), projectID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Calendar returns the caller's month view across all their projects.
//
//	@Summary	Calendar view
//	@Tags		Tickets
//	@Produce	json
//	@Param		month	query		string	true	"Month as YYYY-MM"
//	@Success	200		{object}	CalendarResponse
//	@Failure	400		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/tickets/calendar [get]
func (h *Handler) Calendar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	month := c.Query("month")
	if month == "" {
		response.BadRequest(c, "month query parameter is required")
		return
	}

	view, err := h.service.Calendar(c.Request.Context(), userID, month)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Get returns a single ticket.
//
//	@Summary	Get ticket
//	@Tags		Tickets
//	@Produce	json
//	@Param		id	path		string	true	"Ticket ID"
//	@Success	200	{object}	Ticket
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/tickets/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	t, err := h.service.Get(c.Request.Context(), ticketID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Update applies partial updates. Last writer wins.
//
//	@Summary	Update ticket
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Ticket ID"
//	@Param		request	body		UpdateTicketRequest	true	"Updates"
//	@Success	200		{object}	Ticket
//	@Failure	404		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/tickets/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Update(c.Request.Context(), ticketID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Move re-labels a ticket's status without touching its position.
//
//	@Summary	Move ticket
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Ticket ID"
//	@Param		request	body		MoveTicketRequest	true	"Target status"
//	@Success	200		{object}	Ticket
//	@Failure	400		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/tickets/{id}/move [patch]
func (h *Handler) Move(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	var req MoveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	t, err := h.service.Move(c.Request.Context(), ticketID, userID, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Delete removes a ticket and its comments.
//
//	@Summary	Delete ticket
//	@Tags		Tickets
//	@Param		id	path	string	true	"Ticket ID"
//	@Success	204
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/tickets/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), ticketID, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddComment appends a comment to a ticket.
//
//	@Summary	Add comment
//	@Tags		Tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Ticket ID"
//	@Param		request	body		CreateCommentRequest	true	"Comment"
//	@Success	201		{object}	Comment
//	@Security	BearerAuth
//	@Router		/tickets/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), ticketID, userID, req.Body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments returns a ticket's comments oldest-first with authors.
//
//	@Summary	List comments
//	@Tags		Tickets
//	@Produce	json
//	@Param		id	path	string	true	"Ticket ID"
//	@Success	200	{array}	CommentResponse
//	@Security	BearerAuth
//	@Router		/tickets/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), ticketID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if comments == nil {
		comments = []*CommentResponse{}
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrTicketNotFound, Status: http.StatusNotFound},
		{Err: ErrCommentNotFound, Status: http.StatusNotFound},
		{Err: ErrInvalidStatus, Status: http.StatusBadRequest},
		{Err: ErrInvalidPriority, Status: http.StatusBadRequest},
		{Err: ErrInvalidMonth, Status: http.StatusBadRequest},
		{Err: project.ErrNotMember, Status: http.StatusForbidden},
		{Err: project.ErrProjectNotFound, Status: http.StatusNotFound},
	})
}
