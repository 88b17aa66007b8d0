package identity

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
)

// RecordIssuer 是简化的会话变体：整条用户记录 gob 编码后保存在会话存储里。
// 句柄的签发和吊销与 SessionIssuer 一致，区别只在存储的负载大小。
type RecordIssuer struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRecordIssuer 创建 RecordIssuer 实例
func NewRecordIssuer(client *redis.Client, keyPrefix string, ttl time.Duration) (*RecordIssuer, error) {
	if client == nil {
		return nil, fmt.Errorf("identity: redis client cannot be nil for record issuer")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RecordIssuer{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

func (i *RecordIssuer) key(handle string) string {
	return i.keyPrefix + "usession:" + handle
}

// Issue 分配会话句柄并保存整条用户记录 (密码哈希在存储前清除)
func (i *RecordIssuer) Issue(ctx context.Context, user *domain.User) (*Proof, error) {
	handle := uuid.New().String()

	stored := *user
	stored.Password = "" // 哈希不进会话存储

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stored); err != nil {
		return nil, fmt.Errorf("identity: failed to encode user record: %w", err)
	}

	if err := i.client.SetEX(ctx, i.key(handle), buf.Bytes(), i.ttl).Err(); err != nil {
		return nil, fmt.Errorf("identity: failed to store user session: %w", err)
	}

	return &Proof{
		Value:  handle,
		MaxAge: int(i.ttl.Seconds()),
	}, nil
}

// Resolve 载入存储的用户记录并取出身份字段
func (i *RecordIssuer) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	handle, err := proofFromRequest(r)
	if err != nil {
		return nil, err
	}

	data, err := i.client.Get(ctx, i.key(handle)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAnonymous
		}
		return nil, fmt.Errorf("identity: failed to load user session: %w", err)
	}

	var stored domain.User
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&stored); err != nil {
		logrus.WithError(err).Warn("Failed to decode stored user record")
		return nil, ErrAnonymous
	}

	return &Identity{
		UserID:   stored.ID,
		Username: stored.Username,
	}, nil
}

// Revoke 删除服务端会话绑定
func (i *RecordIssuer) Revoke(ctx context.Context, r *http.Request) error {
	handle, err := proofFromRequest(r)
	if err != nil {
		return err
	}
	if err := i.client.Del(ctx, i.key(handle)).Err(); err != nil {
		return fmt.Errorf("identity: failed to delete user session: %w", err)
	}
	return nil
}
