package repository

import (
	"context"

	"giveaway-rooms/internal/domain"
)

// FeedPublisher 发布加入事件，供实时推送层消费。
type FeedPublisher interface {
	// PublishJoin 将事件发布到所属抽奖的频道。尽力而为，失败不影响已提交的加入。
	PublishJoin(ctx context.Context, event domain.JoinEvent) error
}

// FeedSubscriber 订阅全部抽奖的加入事件。
type FeedSubscriber interface {
	// SubscribeJoins 返回一个事件通道。通道在 Close 之后关闭。
	SubscribeJoins(ctx context.Context) (<-chan domain.JoinEvent, error)

	// Close 停止订阅并关闭事件通道。
	Close() error
}
