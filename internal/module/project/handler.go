package project

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	service *Service
}

// NewHandler creates a new project handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers project routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.GET("", h.List)
		projects.GET("/:id", h.Get)
		projects.PATCH("/:id", h.Update)
		projects.DELETE("/:id", h.Delete)
	}
}

// Create creates a new project.
//
//	@Summary	Create project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateProjectRequest	true	"Project"
//	@Success	201		{object}	Project
//	@Failure	400		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// List returns the caller's projects with role and ticket count.
//
//	@Summary	List projects
//	@Tags		Projects
//	@Produce	json
//	@Success	200	{array}	ProjectSummary
//	@Security	BearerAuth
//	@Router		/projects [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	summaries, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if summaries == nil {
		summaries = []*ProjectSummary{}
	}

	c.JSON(http.StatusOK, summaries)
}

// Get returns a single project.
//
//	@Summary	Get project
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string	true	"Project ID"
//	@Success	200	{object}	Project
//	@Failure	403	{object}	response.ErrorResponse
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id} [get]
func (h *Handler) Get(c *gin.Context) {
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

	p, err := h.service.Get(c.Request.Context(), projectID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Update applies partial updates to a project.
//
//	@Summary	Update project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Project ID"
//	@Param		request	body		UpdateProjectRequest	true	"Updates"
//	@Success	200		{object}	Project
//	@Failure	403		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
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

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), projectID, userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Delete removes a project. Admin only.
//
//	@Summary	Delete project
//	@Tags		Projects
//	@Param		id	path	string	true	"Project ID"
//	@Success	204
//	@Failure	403	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), projectID, userID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrProjectNotFound, Status: http.StatusNotFound},
		{Err: ErrNotMember, Status: http.StatusForbidden},
		{Err: ErrNotAdmin, Status: http.StatusForbidden},
	})
}
