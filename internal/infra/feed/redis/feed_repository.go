// Package redisfeed 基于 Redis Pub/Sub 实现加入事件的发布与订阅。
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
)

// RedisFeed 同时实现 FeedPublisher 和 FeedSubscriber。
// 每个抽奖有独立的频道 "<prefix>joins:<giveawayID>"，订阅端用模式订阅接收全部事件。
type RedisFeed struct {
	client    *redis.Client
	keyPrefix string

	mu     sync.Mutex
	pubsub *redis.PubSub
	events chan domain.JoinEvent
	closed bool
}

// NewRedisFeed 创建 RedisFeed 实例
func NewRedisFeed(client *redis.Client, keyPrefix string) *RedisFeed {
	if client == nil {
		panic("redis client cannot be nil for RedisFeed")
	}
	return &RedisFeed{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (f *RedisFeed) channelFor(giveawayID uint) string {
	return f.keyPrefix + "joins:" + strconv.FormatUint(uint64(giveawayID), 10)
}

// PublishJoin 将事件序列化后发布到所属抽奖的频道
func (f *RedisFeed) PublishJoin(ctx context.Context, event domain.JoinEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redisfeed: marshal join event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channelFor(event.GiveawayID), payload).Err(); err != nil {
		return fmt.Errorf("redisfeed: publish join event for giveaway %d: %w", event.GiveawayID, err)
	}
	return nil
}

// SubscribeJoins 用模式订阅接收所有抽奖的加入事件。
// 返回的通道在 Close 之后关闭。重复调用返回同一个通道。
func (f *RedisFeed) SubscribeJoins(ctx context.Context) (<-chan domain.JoinEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, fmt.Errorf("redisfeed: feed is closed")
	}
	if f.events != nil {
		return f.events, nil
	}

	pubsub := f.client.PSubscribe(ctx, f.keyPrefix+"joins:*")
	// 确认订阅已建立，避免丢失早期事件
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redisfeed: subscribe joins: %w", err)
	}

	f.pubsub = pubsub
	f.events = make(chan domain.JoinEvent, 256)

	go f.pump()

	return f.events, nil
}

// pump 把 Redis 消息解码后搬运到事件通道
func (f *RedisFeed) pump() {
	log := logrus.WithField("component", "redis_feed")
	for msg := range f.pubsub.Channel() {
		var event domain.JoinEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.WithError(err).Warn("Dropping undecodable join event")
			continue
		}
		select {
		case f.events <- event:
		default:
			// 消费端跟不上时丢弃，实时推送允许丢帧
			log.WithField("giveaway_id", event.GiveawayID).Warn("Join event channel full, dropping event")
		}
	}
	close(f.events)
}

// Close 停止订阅。pump 退出时会关闭事件通道。
func (f *RedisFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	if f.pubsub != nil {
		return f.pubsub.Close()
	}
	return nil
}
