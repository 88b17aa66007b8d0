package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/identity"
)

// IdentityKey 是已解析身份在 Gin 上下文中的键
const IdentityKey = "identity"

// Auth 返回一个 Gin 中间件，在所有者操作之前解析请求的身份凭证。
// 匿名请求直接拒绝，后续处理程序只信任这里解析出的身份。
func Auth(issuer identity.Issuer) gin.HandlerFunc {
	if issuer == nil {
		panic("identity.Issuer cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		actor, err := issuer.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			if errors.Is(err, identity.ErrAnonymous) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			} else {
				logrus.WithError(err).Error("Auth middleware: failed to resolve identity")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process credentials"})
			}
			c.Abort()
			return
		}

		c.Set(IdentityKey, *actor)
		logrus.WithField("user_id", actor.UserID).Debug("Auth middleware: request authenticated")
		c.Next()
	}
}

// IdentityFrom 从 Gin 上下文取出已解析的身份
func IdentityFrom(c *gin.Context) (identity.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return identity.Identity{}, false
	}
	actor, ok := v.(identity.Identity)
	return actor, ok
}
