package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeValidator struct {
	claims map[string]*TokenClaims
}

func (f *fakeValidator) ValidateAccessToken(token string) (*TokenClaims, error) {
	if claims, ok := f.claims[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func newAuthRouter(validator TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", Auth(validator, optional), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		email, _ := GetEmail(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "email": email})
	})
	return r
}

func TestAuth(t *testing.T) {
	userID := uuid.New()
	validator := &fakeValidator{claims: map[string]*TokenClaims{
		"good-token": {UserID: userID, Email: "user@example.com"},
	}}

	t.Run("valid bearer token", func(t *testing.T) {
		r := newAuthRouter(validator, false)
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+"good-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "user@example.com")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := newAuthRouter(validator, false)
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		r := newAuthRouter(validator, false)
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+"bad-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed scheme rejected", func(t *testing.T) {
		r := newAuthRouter(validator, false)
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set(AuthorizationHeader, "Basic good-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token accepted via query for EventSource", func(t *testing.T) {
		r := newAuthRouter(validator, false)
		req := httptest.NewRequest(http.MethodGet, "/secure?access_token=good-token", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("optional mode passes anonymous requests through", func(t *testing.T) {
		r := newAuthRouter(validator, true)
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates an id when absent", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		header := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, header)
		assert.Equal(t, header, w.Body.String())
		_, err := uuid.Parse(header)
		assert.NoError(t, err)
	})

	t.Run("propagates the caller's id", func(t *testing.T) {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, GetRequestID(c))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "trace-me")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "trace-me", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-me", w.Body.String())
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
