package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/identity"
	"giveaway-rooms/internal/repository"
)

// GiveawayService 负责抽奖房间的创建、查询和所有者看板。
type GiveawayService struct {
	giveawayRepo repository.GiveawayRepository
	referralRepo repository.ReferralRepository
}

// NewGiveawayService 创建 GiveawayService 实例
func NewGiveawayService(giveawayRepo repository.GiveawayRepository, referralRepo repository.ReferralRepository) *GiveawayService {
	if giveawayRepo == nil {
		panic("GiveawayRepository cannot be nil for GiveawayService")
	}
	if referralRepo == nil {
		panic("ReferralRepository cannot be nil for GiveawayService")
	}
	return &GiveawayService{
		giveawayRepo: giveawayRepo,
		referralRepo: referralRepo,
	}
}

// DashboardEntry 是所有者看板的一项：抽奖本身加上它的全部推荐记录。
type DashboardEntry struct {
	Giveaway  domain.Giveaway   `json:"giveaway"`
	Referrals []domain.Referral `json:"referrals"`
}

// Create 创建一个新抽奖房间，OwnerID 永远取自已解析的身份。
// 房间名或频道链接为空返回 ErrValidation。
func (s *GiveawayService) Create(ctx context.Context, actor identity.Identity, roomName, channelLink string) (*domain.Giveaway, error) {
	logCtx := logrus.WithField("owner_id", actor.UserID)

	roomName = strings.TrimSpace(roomName)
	channelLink = strings.TrimSpace(channelLink)
	if roomName == "" || channelLink == "" {
		return nil, ErrValidation
	}

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate unique referral code")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("code", code)

	giveaway := &domain.Giveaway{
		OwnerID:     actor.UserID,
		RoomName:    roomName,
		ChannelLink: channelLink,
		Code:        code,
	}

	if err := s.giveawayRepo.Save(ctx, giveaway); err != nil {
		// 唯一约束竞争：换一个码再试一次，仍失败就放弃
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Referral code collided at save, regenerating once")
			code, err = s.generateUniqueCode(ctx)
			if err != nil {
				logCtx.WithError(err).Error("Failed to regenerate referral code")
				return nil, ErrInternalServer
			}
			giveaway.Code = code
			if err := s.giveawayRepo.Save(ctx, giveaway); err != nil {
				logCtx.WithError(err).Error("Failed to save giveaway after code regeneration")
				return nil, ErrInternalServer
			}
		} else {
			logCtx.WithError(err).Error("Failed to save new giveaway")
			return nil, ErrInternalServer
		}
	}

	logCtx.WithField("giveaway_id", giveaway.ID).Info("Giveaway created successfully")
	return giveaway, nil
}

// ListAll 返回全部抽奖，供公开列表页使用
func (s *GiveawayService) ListAll(ctx context.Context) ([]domain.Giveaway, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	giveaways, err := s.giveawayRepo.ListAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list giveaways")
		return nil, ErrInternalServer
	}
	return giveaways, nil
}

// FindByCode 根据推荐码查找抽奖，供加入表单页使用
func (s *GiveawayService) FindByCode(ctx context.Context, code string) (*domain.Giveaway, error) {
	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	giveaway, err := s.giveawayRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, ErrGiveawayNotFound
		}
		logrus.WithError(err).WithField("code", code).Error("Failed to find giveaway by code")
		return nil, ErrInternalServer
	}
	return giveaway, nil
}

// Dashboard 返回操作者自己全部抽奖及其推荐记录
func (s *GiveawayService) Dashboard(ctx context.Context, actor identity.Identity) ([]DashboardEntry, error) {
	logCtx := logrus.WithField("owner_id", actor.UserID)

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	giveaways, err := s.giveawayRepo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list giveaways for dashboard")
		return nil, ErrInternalServer
	}

	entries := make([]DashboardEntry, 0, len(giveaways))
	for _, g := range giveaways {
		referrals, err := s.referralRepo.ListByGiveaway(ctx, g.ID)
		if err != nil {
			logCtx.WithError(err).WithField("giveaway_id", g.ID).Error("Failed to list referrals for dashboard")
			return nil, ErrInternalServer
		}
		entries = append(entries, DashboardEntry{Giveaway: g, Referrals: referrals})
	}
	return entries, nil
}

// Referrals 返回单个抽奖的推荐记录。
// 只有抽奖的所有者可以查看，其他身份一律返回 ErrForbidden。
func (s *GiveawayService) Referrals(ctx context.Context, actor identity.Identity, giveawayID uint) (*DashboardEntry, error) {
	logCtx := logrus.WithFields(logrus.Fields{"actor_id": actor.UserID, "giveaway_id": giveawayID})

	ctx, cancel := withStorageTimeout(ctx)
	defer cancel()

	giveaway, err := s.giveawayRepo.FindByID(ctx, giveawayID)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return nil, ErrGiveawayNotFound
		}
		logCtx.WithError(err).Error("Failed to find giveaway")
		return nil, ErrInternalServer
	}

	if err := assertOwner(giveaway, actor); err != nil {
		logCtx.Warn("Dashboard access denied: actor is not the owner")
		return nil, err
	}

	referrals, err := s.referralRepo.ListByGiveaway(ctx, giveaway.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to list referrals")
		return nil, ErrInternalServer
	}
	return &DashboardEntry{Giveaway: *giveaway, Referrals: referrals}, nil
}

// assertOwner 只允许抽奖的所有者通过
func assertOwner(giveaway *domain.Giveaway, actor identity.Identity) error {
	if giveaway.OwnerID != actor.UserID {
		return ErrForbidden
	}
	return nil
}
