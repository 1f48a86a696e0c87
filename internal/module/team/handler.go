package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for team membership.
type Handler struct {
	service *Service
}

// NewHandler creates a new team handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers team routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/projects/:id/members", h.ListMembers)
	r.PATCH("/projects/:id/members/:user_id", h.UpdateRole)
	r.DELETE("/projects/:id/members/:user_id", h.RemoveMember)
	r.POST("/projects/:id/invitations", h.Invite)
	r.GET("/projects/:id/invitations", h.ListInvitations)

	invitations := r.Group("/invitations")
	{
		invitations.GET("", h.ListMyInvitations)
		invitations.POST("/:id/accept", h.Accept)
		invitations.POST("/:id/decline", h.Decline)
		invitations.DELETE("/:id", h.Cancel)
	}
}

// ListMembers returns a project's members with profiles.
//
//	@Summary	List members
//	@Tags		Team
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{array}	Member
//	@Security	BearerAuth
//	@Router		/projects/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
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

	members, err := h.service.ListMembers(c.Request.Context(), projectID, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// UpdateRole changes a member's role.
//
//	@Summary	Update member role
//	@Tags		Team
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Project ID"
//	@Param		user_id	path		string				true	"User ID"
//	@Param		request	body		UpdateRoleRequest	true	"New role"
//	@Success	200		{object}	UserRole
//	@Failure	409		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/members/{user_id} [patch]
func (h *Handler) UpdateRole(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role, err := h.service.UpdateRole(c.Request.Context(), projectID, callerID, targetID, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// RemoveMember removes a user from the project.
//
//	@Summary	Remove member
//	@Tags		Team
//	@Param		id		path	string	true	"Project ID"
//	@Param		user_id	path	string	true	"User ID"
//	@Success	204
//	@Failure	409	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/members/{user_id} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), projectID, callerID, targetID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Invite invites a user by email.
//
//	@Summary	Invite member
//	@Tags		Team
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Project ID"
//	@Param		request	body		InviteRequest	true	"Invitation"
//	@Success	201		{object}	ProjectInvitation
//	@Failure	409		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/projects/{id}/invitations [post]
func (h *Handler) Invite(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	inv, err := h.service.Invite(c.Request.Context(), projectID, callerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// ListInvitations returns a project's invitations.
//
//	@Summary	List project invitations
//	@Tags		Team
//	@Produce	json
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{array}	ProjectInvitation
//	@Security	BearerAuth
//	@Router		/projects/{id}/invitations [get]
func (h *Handler) ListInvitations(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	invs, err := h.service.ListInvitations(c.Request.Context(), projectID, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if invs == nil {
		invs = []*ProjectInvitation{}
	}

	c.JSON(http.StatusOK, invs)
}

// ListMyInvitations returns the caller's pending invitations.
//
//	@Summary	List own invitations
//	@Tags		Team
//	@Produce	json
//	@Success	200	{array}	ProjectInvitation
//	@Security	BearerAuth
//	@Router		/invitations [get]
func (h *Handler) ListMyInvitations(c *gin.Context) {
	email, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	invs, err := h.service.ListMyInvitations(c.Request.Context(), email)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if invs == nil {
		invs = []*ProjectInvitation{}
	}

	c.JSON(http.StatusOK, invs)
}

// Accept accepts an invitation and joins the project.
//
//	@Summary	Accept invitation
//	@Tags		Team
//	@Produce	json
//	@Param		id	path		string	true	"Invitation ID"
//	@Success	200	{object}	UserRole
//	@Failure	409	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/invitations/{id}/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	email, _ := middleware.GetEmail(c)

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invitation id")
		return
	}

	role, err := h.service.Accept(c.Request.Context(), invitationID, userID, email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// Decline declines an invitation.
//
//	@Summary	Decline invitation
//	@Tags		Team
//	@Param		id	path	string	true	"Invitation ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/invitations/{id}/decline [post]
func (h *Handler) Decline(c *gin.Context) {
	email, ok := middleware.GetEmail(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invitation id")
		return
	}

	if err := h.service.Decline(c.Request.Context(), invitationID, email); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Cancel deletes a pending invitation.
//
//	@Summary	Cancel invitation
//	@Tags		Team
//	@Param		id	path	string	true	"Invitation ID"
//	@Success	204
//	@Security	BearerAuth
//	@Router		/invitations/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invitation id")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), invitationID, callerID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrNotMember, Status: http.StatusForbidden},
		{Err: ErrNotAdmin, Status: http.StatusForbidden},
		{Err: ErrRoleNotFound, Status: http.StatusNotFound},
		{Err: ErrInvalidRole, Status: http.StatusBadRequest},
		{Err: ErrLastAdmin, Status: http.StatusConflict},
		{Err: ErrAlreadyMember, Status: http.StatusConflict},
		{Err: ErrInvitationNotFound, Status: http.StatusNotFound},
		{Err: ErrInvitationNotPending, Status: http.StatusConflict},
		{Err: ErrNotInvitee, Status: http.StatusForbidden},
	})
}
