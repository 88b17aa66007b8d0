package repository

import (
	"context"

	"giveaway-rooms/internal/domain"
)

// GiveawayRepository 定义了抽奖房间数据的存储和检索操作。
type GiveawayRepository interface {
	// FindByID 根据抽奖 ID 查找记录。
	// 如果记录不存在，返回 ErrGiveawayNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Giveaway, error)

	// FindByCode 根据推荐码查找记录。
	// 如果记录不存在，返回 ErrGiveawayNotFound。
	FindByCode(ctx context.Context, code string) (*domain.Giveaway, error)

	// Save 保存抽奖信息。
	// 推荐码冲突时返回 ErrDuplicateEntry。
	Save(ctx context.Context, giveaway *domain.Giveaway) error

	// ListAll 返回全部抽奖，按创建时间倒序。
	ListAll(ctx context.Context) ([]domain.Giveaway, error)

	// ListByOwner 返回某个创建者的全部抽奖，按创建时间升序。
	ListByOwner(ctx context.Context, ownerID uint) ([]domain.Giveaway, error)

	// IsCodeExists 检查推荐码是否已存在。
	IsCodeExists(ctx context.Context, code string) (bool, error)

	// SetReferralCount 将计数器覆盖为给定值。仅供对账任务修正漂移使用。
	SetReferralCount(ctx context.Context, id uint, count uint64) error
}
