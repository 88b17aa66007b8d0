package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/identity"
	"giveaway-rooms/internal/service"
)

// AuthHandler 封装了注册、登录和登出的 HTTP 处理逻辑。
// 身份凭证通过 HTTP-only Cookie 下发。
type AuthHandler struct {
	authService  *service.AuthService
	cookieSecure bool
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService, cookieSecure bool) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: username (3-50 chars) and password (min 6 chars) required")
		return
	}

	newUser, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithField("user_id", newUser.ID).Info("Handler.Register: User registered successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user_id": newUser.ID,
	})
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
// 成功时把签发的凭证写入 HTTP-only Cookie。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: username and password required")
		return
	}

	proof, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.SetCookie(identity.CookieName, proof.Value, proof.MaxAge, "/", "", h.cookieSecure, true)

	logrus.WithField("user_id", user.ID).Info("Handler.Login: User logged in successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "Login successful",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Logout 处理登出请求。
// 会话变体吊销服务端绑定；令牌变体只能清掉 Cookie，
// 旧令牌在自然过期前仍然有效，响应里如实说明。
func (h *AuthHandler) Logout(c *gin.Context) {
	revoked := true
	if err := h.authService.Logout(c.Request.Context(), c.Request); err != nil {
		if errors.Is(err, identity.ErrNotRevocable) {
			revoked = false
		} else if !errors.Is(err, identity.ErrAnonymous) {
			logrus.WithError(err).Error("Handler.Logout: Failed to revoke identity proof")
			ErrorResponse(c, http.StatusInternalServerError, "Logout failed due to server error")
			return
		}
	}

	// 无论哪个变体都清除客户端 Cookie
	c.SetCookie(identity.CookieName, "", -1, "/", "", h.cookieSecure, true)

	if revoked {
		SuccessResponse(c, http.StatusOK, gin.H{"message": "Logged out"})
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Cookie cleared; token remains valid until expiry",
	})
}
