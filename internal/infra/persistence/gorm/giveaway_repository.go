package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository"
)

// GormGiveawayRepository 是 GiveawayRepository 接口的 GORM 实现
type GormGiveawayRepository struct {
	db *gorm.DB
}

// NewGormGiveawayRepository 创建 GormGiveawayRepository 实例
func NewGormGiveawayRepository(db *gorm.DB) *GormGiveawayRepository {
	if db == nil {
		panic("database connection cannot be nil for GormGiveawayRepository")
	}
	return &GormGiveawayRepository{db: db}
}

// FindByID 实现根据抽奖 ID 查找记录
func (r *GormGiveawayRepository) FindByID(ctx context.Context, id uint) (*domain.Giveaway, error) {
	var giveaway domain.Giveaway
	err := r.db.WithContext(ctx).First(&giveaway, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiveawayNotFound
		}
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: find giveaway by id %d: %w", id, err)
	}
	return &giveaway, nil
}

// FindByCode 实现根据推荐码查找记录
func (r *GormGiveawayRepository) FindByCode(ctx context.Context, code string) (*domain.Giveaway, error) {
	var giveaway domain.Giveaway
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&giveaway).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGiveawayNotFound
		}
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: find giveaway by code '%s': %w", code, err)
	}
	return &giveaway, nil
}

// Save 实现保存抽奖信息（创建或更新）
func (r *GormGiveawayRepository) Save(ctx context.Context, giveaway *domain.Giveaway) error {
	err := r.db.WithContext(ctx).Save(giveaway).Error
	if err != nil {
		mapped := mapError(err)
		if errors.Is(mapped, repository.ErrDuplicateEntry) || errors.Is(mapped, repository.ErrUnavailable) {
			return mapped
		}
		return fmt.Errorf("gorm: save giveaway (id: %d, code: %s): %w", giveaway.ID, giveaway.Code, err)
	}
	return nil
}

// ListAll 实现列出全部抽奖，新建的排在前面
func (r *GormGiveawayRepository) ListAll(ctx context.Context) ([]domain.Giveaway, error) {
	var giveaways []domain.Giveaway
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&giveaways).Error
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: list all giveaways: %w", err)
	}
	return giveaways, nil
}

// ListByOwner 实现列出某个创建者的抽奖，按创建时间升序
func (r *GormGiveawayRepository) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Giveaway, error) {
	var giveaways []domain.Giveaway
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&giveaways).Error
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: list giveaways by owner %d: %w", ownerID, err)
	}
	return giveaways, nil
}

// IsCodeExists 实现检查推荐码是否存在
func (r *GormGiveawayRepository) IsCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Giveaway{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		if mapped := mapError(err); errors.Is(mapped, repository.ErrUnavailable) {
			return false, mapped
		}
		return false, fmt.Errorf("gorm: count giveaways by code '%s': %w", code, err)
	}
	return count > 0, nil
}

// SetReferralCount 实现覆盖计数器，仅供对账任务使用
func (r *GormGiveawayRepository) SetReferralCount(ctx context.Context, id uint, count uint64) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Giveaway{}).
		Where("id = ?", id).
		UpdateColumn("referral_count", count)
	if result.Error != nil {
		if mapped := mapError(result.Error); errors.Is(mapped, repository.ErrUnavailable) {
			return mapped
		}
		return fmt.Errorf("gorm: set referral count for giveaway %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrGiveawayNotFound
	}
	return nil
}
