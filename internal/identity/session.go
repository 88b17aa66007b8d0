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

// sessionRecord 是会话存储里保存的最小用户记录
type sessionRecord struct {
	UserID   uint
	Username string
}

// SessionIssuer 是服务端会话变体。
// 凭证是一个不透明的 UUID 句柄，绑定到 Redis 中 gob 编码的最小用户记录。
type SessionIssuer struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewSessionIssuer 创建 SessionIssuer 实例
func NewSessionIssuer(client *redis.Client, keyPrefix string, ttl time.Duration) (*SessionIssuer, error) {
	if client == nil {
		return nil, fmt.Errorf("identity: redis client cannot be nil for session issuer")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionIssuer{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

func (i *SessionIssuer) key(handle string) string {
	return i.keyPrefix + "session:" + handle
}

// Issue 分配一个会话句柄并把最小用户记录绑定到它
func (i *SessionIssuer) Issue(ctx context.Context, user *domain.User) (*Proof, error) {
	handle := uuid.New().String()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(sessionRecord{
		UserID:   user.ID,
		Username: user.Username,
	}); err != nil {
		return nil, fmt.Errorf("identity: failed to encode session record: %w", err)
	}

	if err := i.client.SetEX(ctx, i.key(handle), buf.Bytes(), i.ttl).Err(); err != nil {
		return nil, fmt.Errorf("identity: failed to store session: %w", err)
	}

	return &Proof{
		Value:  handle,
		MaxAge: int(i.ttl.Seconds()),
	}, nil
}

// Resolve 在会话存储中查找句柄并载入绑定的身份
func (i *SessionIssuer) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	handle, err := proofFromRequest(r)
	if err != nil {
		return nil, err
	}

	data, err := i.client.Get(ctx, i.key(handle)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAnonymous
		}
		return nil, fmt.Errorf("identity: failed to load session: %w", err)
	}

	var record sessionRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&record); err != nil {
		logrus.WithError(err).Warn("Failed to decode stored session record")
		return nil, ErrAnonymous
	}

	return &Identity{
		UserID:   record.UserID,
		Username: record.Username,
	}, nil
}

// Revoke 删除服务端会话绑定。之后同一句柄不再可用。
func (i *SessionIssuer) Revoke(ctx context.Context, r *http.Request) error {
	handle, err := proofFromRequest(r)
	if err != nil {
		return err
	}
	if err := i.client.Del(ctx, i.key(handle)).Err(); err != nil {
		return fmt.Errorf("identity: failed to delete session: %w", err)
	}
	return nil
}
