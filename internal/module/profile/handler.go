package profile

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ticketflow/server/internal/shared/response"
	"github.com/ticketflow/server/internal/utils/middleware"
)

// Handler handles HTTP requests for profiles.
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers profile routes. All routes require auth.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	{
		profiles.GET("", h.GetBatch)
		profiles.GET("/me", h.GetMe)
		profiles.PATCH("/me", h.UpdateMe)
		profiles.POST("/me/avatar", h.UploadAvatar)
		profiles.GET("/:user_id", h.GetByUserID)
	}
}

// GetMe returns the caller's profile.
//
//	@Summary	Get own profile
//	@Tags		Profiles
//	@Produce	json
//	@Success	200	{object}	Profile
//	@Failure	404	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/profiles/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetByUserID returns another user's profile.
//
//	@Summary	Get profile
//	@Tags		Profiles
//	@Produce	json
//	@Param		user_id	path		string	true	"User ID"
//	@Success	200		{object}	Profile
//	@Failure	404		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/profiles/{user_id} [get]
func (h *Handler) GetByUserID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetBatch returns profiles for a comma-separated list of user ids.
//
//	@Summary	Get profiles by ids
//	@Tags		Profiles
//	@Produce	json
//	@Param		ids	query		string	true	"Comma-separated user IDs"
//	@Success	200	{array}		Profile
//	@Failure	400	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/profiles [get]
func (h *Handler) GetBatch(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		response.BadRequest(c, "ids query parameter is required")
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			response.BadRequest(c, "invalid user id: "+part)
			return
		}
		ids = append(ids, id)
	}

	profiles, err := h.service.GetBatch(c.Request.Context(), ids)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if profiles == nil {
		profiles = []*Profile{}
	}

	c.JSON(http.StatusOK, profiles)
}

// UpdateMe applies partial updates to the caller's profile.
//
//	@Summary	Update own profile
//	@Tags		Profiles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		UpdateProfileRequest	true	"Profile updates"
//	@Success	200		{object}	Profile
//	@Failure	400		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/profiles/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UploadAvatar accepts a multipart avatar upload.
//
//	@Summary	Upload avatar
//	@Tags		Profiles
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		avatar	formData	file	true	"Avatar image"
//	@Success	200		{object}	Profile
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	503		{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/profiles/me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read avatar file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	p, err := h.service.UploadAvatar(c.Request.Context(), userID, file, fileHeader.Size, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrProfileNotFound, Status: http.StatusNotFound},
		{Err: ErrInvalidAvatar, Status: http.StatusBadRequest},
		{Err: ErrAvatarTooLarge, Status: http.StatusRequestEntityTooLarge},
		{Err: ErrStorageUnavailable, Status: http.StatusServiceUnavailable},
	})
}
