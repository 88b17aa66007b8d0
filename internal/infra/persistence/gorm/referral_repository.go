package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository"
)

// GormReferralRepository 是 ReferralRepository 接口的 GORM 实现
type GormReferralRepository struct {
	db *gorm.DB
}

// NewGormReferralRepository 创建 GormReferralRepository 实例
func NewGormReferralRepository(db *gorm.DB) *GormReferralRepository {
	if db == nil {
		panic("database connection cannot be nil for GormReferralRepository")
	}
	return &GormReferralRepository{db: db}
}

// RecordJoin 在一个事务中写入推荐记录并递增计数器。
// 先用 SELECT ... FOR UPDATE 锁住抽奖行，让并发加入在存储层串行化，
// 保证 referral_count 始终等于 referrals 的行数。
func (r *GormReferralRepository) RecordJoin(ctx context.Context, giveawayID uint, referrerName string) (*domain.Referral, uint64, error) {
	referral := &domain.Referral{
		GiveawayID:   giveawayID,
		ReferrerName: referrerName,
	}
	var updatedCount uint64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var giveaway domain.Giveaway
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&giveaway, giveawayID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrGiveawayNotFound
			}
			return err
		}

		if err := tx.Create(referral).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Giveaway{}).
			Where("id = ?", giveawayID).
			UpdateColumn("referral_count", gorm.Expr("referral_count + ?", 1)).Error; err != nil {
			return err
		}

		updatedCount = giveaway.ReferralCount + 1
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, 0, err
		}
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, 0, mapped
		}
		return nil, 0, fmt.Errorf("gorm: record join for giveaway %d: %w", giveawayID, err)
	}
	return referral, updatedCount, nil
}

// ListByGiveaway 实现列出某个抽奖的推荐记录，按时间升序
func (r *GormReferralRepository) ListByGiveaway(ctx context.Context, giveawayID uint) ([]domain.Referral, error) {
	var referrals []domain.Referral
	err := r.db.WithContext(ctx).
		Where("giveaway_id = ?", giveawayID).
		Order("created_at ASC").
		Find(&referrals).Error
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: list referrals for giveaway %d: %w", giveawayID, err)
	}
	return referrals, nil
}

// CountByGiveaway 实现统计推荐记录行数
func (r *GormReferralRepository) CountByGiveaway(ctx context.Context, giveawayID uint) (uint64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Referral{}).
		Where("giveaway_id = ?", giveawayID).
		Count(&count).Error
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return 0, mapped
		}
		return 0, fmt.Errorf("gorm: count referrals for giveaway %d: %w", giveawayID, err)
	}
	return uint64(count), nil
}
