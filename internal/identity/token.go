package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
)

// TokenIssuer 是无状态签名令牌变体。
// 凭证是一个 HS256 JWT，携带 {user_id, username, iat, exp}，固定短有效期。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer 创建 TokenIssuer 实例。
// ttl 为零时使用一小时的默认有效期。
func NewTokenIssuer(secretKey string, ttl time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("identity: JWT secret key cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{
		secret: []byte(secretKey),
		ttl:    ttl,
	}, nil
}

// Issue 签发一个自过期的签名令牌
func (i *TokenIssuer) Issue(ctx context.Context, user *domain.User) (*Proof, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	})
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("identity: failed to sign token: %w", err)
	}
	return &Proof{
		Value:  tokenString,
		MaxAge: int(i.ttl.Seconds()),
	}, nil
}

// Resolve 验证令牌签名和有效期，解码出内嵌的身份。
// 签名无效或已过期时一律返回 ErrAnonymous。
func (i *TokenIssuer) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	tokenStr, err := proofFromRequest(r)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		logrus.WithError(err).Debug("Token resolution failed")
		return nil, ErrAnonymous
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrAnonymous
	}

	// JWT 数字默认解码为 float64
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 || userIDFloat != float64(uint(userIDFloat)) {
		logrus.Warnf("Token carries invalid user_id claim: %v", claims["user_id"])
		return nil, ErrAnonymous
	}
	username, _ := claims["username"].(string)

	return &Identity{
		UserID:   uint(userIDFloat),
		Username: username,
	}, nil
}

// Revoke 对令牌变体不可用：没有服务端状态可删，旧令牌活到自然过期。
func (i *TokenIssuer) Revoke(ctx context.Context, r *http.Request) error {
	return ErrNotRevocable
}
