package identity_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/identity"
)

// requestWithProof 构造一个携带凭证 Cookie 的请求
func requestWithProof(value string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, "/api/dashboard", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: identity.CookieName, Value: value})
	}
	return req
}

// craftToken 用指定的时间戳直接签一个令牌，用于时间边界测试
func craftToken(t *testing.T, secret string, userID uint, username string, issuedAt, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenIssuer_IssueResolveRoundtrip(t *testing.T) {
	// Arrange
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	user := &domain.User{ID: 12, Username: "creator"}

	// Act
	proof, err := issuer.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotNil(t, proof)
	assert.Equal(t, 3600, proof.MaxAge)

	actor, err := issuer.Resolve(context.Background(), requestWithProof(proof.Value))

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, uint(12), actor.UserID)
	assert.Equal(t, "creator", actor.Username)
}

func TestTokenIssuer_Resolve_MissingCookie(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Resolve(context.Background(), requestWithProof(""))

	require.Error(t, err)
	assert.True(t, errors.Is(err, identity.ErrAnonymous))
}

func TestTokenIssuer_Resolve_TimeBoundary(t *testing.T) {
	// 有效期一小时：签发后 59 分钟仍然有效，61 分钟后拒绝
	secret := "test-secret"
	issuer, err := identity.NewTokenIssuer(secret, time.Hour)
	require.NoError(t, err)
	now := time.Now()

	stillValid := craftToken(t, secret, 12, "creator", now.Add(-59*time.Minute), now.Add(time.Minute))
	actor, err := issuer.Resolve(context.Background(), requestWithProof(stillValid))
	assert.NoError(t, err, "过期前一分钟的令牌应被接受")
	require.NotNil(t, actor)
	assert.Equal(t, uint(12), actor.UserID)

	expired := craftToken(t, secret, 12, "creator", now.Add(-61*time.Minute), now.Add(-time.Minute))
	_, err = issuer.Resolve(context.Background(), requestWithProof(expired))
	require.Error(t, err, "过期后一分钟的令牌必须被拒绝")
	assert.True(t, errors.Is(err, identity.ErrAnonymous))
}

func TestTokenIssuer_Resolve_WrongSecret(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("right-secret", time.Hour)
	require.NoError(t, err)
	now := time.Now()

	forged := craftToken(t, "wrong-secret", 12, "creator", now, now.Add(time.Hour))
	_, err = issuer.Resolve(context.Background(), requestWithProof(forged))

	require.Error(t, err, "用错误密钥签名的令牌必须被拒绝")
	assert.True(t, errors.Is(err, identity.ErrAnonymous))
}

func TestTokenIssuer_Resolve_TamperedToken(t *testing.T) {
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	user := &domain.User{ID: 12, Username: "creator"}

	proof, err := issuer.Issue(context.Background(), user)
	require.NoError(t, err)

	// 篡改最后一个字符，破坏签名
	tampered := proof.Value[:len(proof.Value)-1] + "x"
	if tampered == proof.Value {
		tampered = proof.Value[:len(proof.Value)-1] + "y"
	}
	_, err = issuer.Resolve(context.Background(), requestWithProof(tampered))

	require.Error(t, err)
	assert.True(t, errors.Is(err, identity.ErrAnonymous))
}

func TestTokenIssuer_Revoke_NotRevocable(t *testing.T) {
	// 令牌变体没有服务端状态，吊销必须显式失败而不是静默成功
	issuer, err := identity.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	user := &domain.User{ID: 12, Username: "creator"}

	proof, err := issuer.Issue(context.Background(), user)
	require.NoError(t, err)

	err = issuer.Revoke(context.Background(), requestWithProof(proof.Value))
	require.Error(t, err)
	assert.True(t, errors.Is(err, identity.ErrNotRevocable))

	// 吊销失败后旧令牌仍然有效，直到自然过期
	actor, err := issuer.Resolve(context.Background(), requestWithProof(proof.Value))
	assert.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, uint(12), actor.UserID)
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	_, err := identity.NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}
