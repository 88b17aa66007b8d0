package repository

import (
	"context"

	"giveaway-rooms/internal/domain"
)

// ReferralRepository 定义了推荐记录的存储和检索操作。
type ReferralRepository interface {
	// RecordJoin 在同一个事务中追加一条推荐记录并把所属抽奖的计数器加一，
	// 返回写入的记录和更新后的计数。两次写入要么同时生效要么同时回滚。
	// 如果抽奖不存在，返回 ErrGiveawayNotFound。
	RecordJoin(ctx context.Context, giveawayID uint, referrerName string) (*domain.Referral, uint64, error)

	// ListByGiveaway 返回某个抽奖的全部推荐记录，按时间升序。
	ListByGiveaway(ctx context.Context, giveawayID uint) ([]domain.Referral, error)

	// CountByGiveaway 统计某个抽奖的推荐记录行数。供对账任务使用。
	CountByGiveaway(ctx context.Context, giveawayID uint) (uint64, error)
}
