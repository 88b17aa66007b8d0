package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/identity"
	"giveaway-rooms/internal/middleware"
)

// setupAuthRouter 构建一个被 Auth 中间件保护的回显路由
func setupAuthRouter(issuer identity.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.Auth(issuer), func(c *gin.Context) {
		actor, ok := middleware.IdentityFrom(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "username": actor.Username})
	})
	return router
}

func TestAuth_AnonymousRejected(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	router := setupAuthRouter(issuer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidProofRejected(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	router := setupAuthRouter(issuer)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: identity.CookieName, Value: "not-a-token"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidProofResolvesIdentity(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	router := setupAuthRouter(issuer)

	proof, err := issuer.Issue(context.Background(), &domain.User{ID: 7, Username: "creator"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: identity.CookieName, Value: proof.Value})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"username":"creator"`)
}
