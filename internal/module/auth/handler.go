package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticketflow/server/internal/shared/response"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/oauth/:provider/url", h.OAuthURL)
		auth.GET("/oauth/:provider/callback", h.OAuthCallback)
	}
}

// Register handles account registration.
//
//	@Summary		Register
//	@Description	Create an account with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	TokenResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Router			/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokens)
}

// Login handles email/password sign-in.
//
//	@Summary		Login
//	@Description	Sign in with email and password
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Refresh rotates a refresh token.
//
//	@Summary		Refresh tokens
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh request"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout revokes a refresh token.
//
//	@Summary		Logout
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	RefreshRequest	true	"Refresh token to revoke"
//	@Success		204
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// OAuthURL returns the provider redirect URL.
//
//	@Summary		OAuth URL
//	@Tags			Auth
//	@Produce		json
//	@Param			provider	path		string	true	"Provider name (google, github)"
//	@Success		200			{object}	OAuthURLResponse
//	@Failure		400			{object}	response.ErrorResponse
//	@Router			/auth/oauth/{provider}/url [get]
func (h *Handler) OAuthURL(c *gin.Context) {
	resp, err := h.service.OAuthURL(c.Request.Context(), c.Param("provider"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OAuthCallback completes the OAuth flow.
//
//	@Summary		OAuth callback
//	@Tags			Auth
//	@Produce		json
//	@Param			provider	path		string	true	"Provider name"
//	@Param			state		query		string	true	"OAuth state"
//	@Param			code		query		string	true	"Authorization code"
//	@Success		200			{object}	TokenResponse
//	@Failure		401			{object}	response.ErrorResponse
//	@Router			/auth/oauth/{provider}/callback [get]
func (h *Handler) OAuthCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.BadRequest(c, "state and code are required")
		return
	}

	tokens, err := h.service.OAuthCallback(c.Request.Context(), c.Param("provider"), state, code)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	response.HandleErrorWithDefault(c, err, []response.ErrorMapping{
		{Err: ErrEmailTaken, Status: http.StatusConflict},
		{Err: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Err: ErrUserNotFound, Status: http.StatusNotFound},
		{Err: ErrTokenNotFound, Status: http.StatusUnauthorized},
		{Err: ErrExpiredToken, Status: http.StatusUnauthorized},
		{Err: ErrRevokedToken, Status: http.StatusUnauthorized},
		{Err: ErrInvalidToken, Status: http.StatusUnauthorized},
		{Err: ErrInvalidOAuthProvider, Status: http.StatusBadRequest},
		{Err: ErrInvalidOAuthState, Status: http.StatusUnauthorized},
		{Err: ErrOAuthFailed, Status: http.StatusUnauthorized},
	})
}
