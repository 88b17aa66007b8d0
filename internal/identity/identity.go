// Package identity 把三种身份凭证方案 (服务端会话 / 签名令牌 / 全量记录会话)
// 统一为一个 Issuer 能力接口，由配置选择具体实现。
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"giveaway-rooms/internal/domain"
)

// CookieName 是携带身份凭证的 HTTP-only Cookie 名称
const CookieName = "gr_auth"

// 支持的身份凭证方案
const (
	// ModeSession 服务端会话：Redis 里保存 {id, username} 的最小记录
	ModeSession = "session"
	// ModeToken 无状态签名令牌：JWT，固定一小时有效期，过期前无法吊销
	ModeToken = "token"
	// ModeRecord 简化会话：整条用户记录保存在会话存储里
	ModeRecord = "record"
)

var (
	// ErrAnonymous 表示请求没有携带有效凭证 (缺失/无效/已过期)
	ErrAnonymous = errors.New("identity: anonymous request")
	// ErrNotRevocable 表示该凭证方案不支持服务端吊销 (令牌变体)
	ErrNotRevocable = errors.New("identity: proof cannot be revoked before expiry")
)

// Identity 是一次请求解析出的操作者身份。
type Identity struct {
	UserID   uint
	Username string
}

// Proof 是签发出的身份凭证，作为 Cookie 值下发。
type Proof struct {
	Value  string // Cookie 值 (会话句柄或签名令牌)
	MaxAge int    // Cookie 生存期 (秒)
}

// Issuer 是身份凭证能力接口：签发、解析、吊销。
// 每个变体实现一次，所有者操作只信任 Resolve 的结果。
type Issuer interface {
	// Issue 在凭证校验成功后签发一个凭证。每次成功登录恰好签发一个。
	Issue(ctx context.Context, user *domain.User) (*Proof, error)

	// Resolve 从请求 Cookie 中恢复操作者身份。
	// 凭证缺失、无效或过期时返回 ErrAnonymous。
	Resolve(ctx context.Context, r *http.Request) (*Identity, error)

	// Revoke 使请求携带的凭证失效。
	// 令牌变体返回 ErrNotRevocable：旧令牌在自然过期前仍然有效，
	// 这是两类信任模型的固有差异，不在此处掩盖。
	Revoke(ctx context.Context, r *http.Request) error
}

// NewIssuer 根据配置的 mode 选择凭证实现
func NewIssuer(mode string, redisClient *redis.Client, keyPrefix, jwtSecret string, tokenTTL, sessionTTL time.Duration) (Issuer, error) {
	switch mode {
	case ModeToken:
		return NewTokenIssuer(jwtSecret, tokenTTL)
	case ModeSession:
		return NewSessionIssuer(redisClient, keyPrefix, sessionTTL)
	case ModeRecord:
		return NewRecordIssuer(redisClient, keyPrefix, sessionTTL)
	default:
		return nil, fmt.Errorf("identity: unknown auth mode %q", mode)
	}
}

// proofFromRequest 读取请求中的凭证 Cookie 值
func proofFromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie 是唯一可能的错误
		return "", ErrAnonymous
	}
	if c.Value == "" {
		return "", ErrAnonymous
	}
	return c.Value, nil
}
