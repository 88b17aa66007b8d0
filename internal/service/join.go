package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository"
)

// 可重试的存储故障最多重试这么多次，每次退避时间递增
const (
	joinMaxAttempts  = 3
	joinRetryBackoff = 100 * time.Millisecond
)

// JoinService 实现加入协议：解析推荐码、校验推荐人、
// 在一个事务里落账并递增计数，最后发布实时事件。
type JoinService struct {
	giveawayRepo repository.GiveawayRepository
	referralRepo repository.ReferralRepository
	feed         repository.FeedPublisher // 可为 nil，实时推送是可选项
}

// NewJoinService 创建 JoinService 实例
func NewJoinService(giveawayRepo repository.GiveawayRepository, referralRepo repository.ReferralRepository, feed repository.FeedPublisher) *JoinService {
	if giveawayRepo == nil {
		panic("GiveawayRepository cannot be nil for JoinService")
	}
	if referralRepo == nil {
		panic("ReferralRepository cannot be nil for JoinService")
	}
	return &JoinService{
		giveawayRepo: giveawayRepo,
		referralRepo: referralRepo,
		feed:         feed,
	}
}

// JoinResult 是一次成功加入的结果，ChannelLink 是无条件跳转目标。
type JoinResult struct {
	Giveaway      *domain.Giveaway
	Referral      *domain.Referral
	ReferralCount uint64
	ChannelLink   string
}

// Join 处理一次加入提交。
// 未知推荐码返回 ErrGiveawayNotFound (终态，不重试)；
// 空白推荐人名返回 ErrValidation，不产生任何状态变化。
// 同名重复提交被当作独立的推荐接受，这里不做去重。
func (s *JoinService) Join(ctx context.Context, code, referrerName string) (*JoinResult, error) {
	logCtx := logrus.WithField("code", code)

	referrerName = strings.TrimSpace(referrerName)
	if referrerName == "" {
		return nil, ErrValidation
	}

	findCtx, cancel := withStorageTimeout(ctx)
	giveaway, err := s.giveawayRepo.FindByCode(findCtx, code)
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			logCtx.Warn("Join failed: unknown referral code")
			return nil, ErrGiveawayNotFound
		}
		logCtx.WithError(err).Error("Failed to resolve referral code")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("giveaway_id", giveaway.ID)

	referral, count, err := s.recordJoinWithRetry(ctx, logCtx, giveaway.ID, referrerName)
	if err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			// 抽奖在解析和落账之间被删除
			return nil, ErrGiveawayNotFound
		}
		logCtx.WithError(err).Error("Failed to record join")
		return nil, ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{
		"referrer_name":  referrerName,
		"referral_count": count,
	}).Info("Referral recorded")

	s.publishJoin(ctx, domain.JoinEvent{
		GiveawayID:    giveaway.ID,
		ReferrerName:  referrerName,
		ReferralCount: count,
		JoinedAt:      referral.CreatedAt,
	})

	return &JoinResult{
		Giveaway:      giveaway,
		Referral:      referral,
		ReferralCount: count,
		ChannelLink:   giveaway.ChannelLink,
	}, nil
}

// recordJoinWithRetry 执行事务性的落账。
// 只有 ErrUnavailable (连接中断/死锁) 会触发重试；约束类错误是终态。
func (s *JoinService) recordJoinWithRetry(ctx context.Context, logCtx *logrus.Entry, giveawayID uint, referrerName string) (*domain.Referral, uint64, error) {
	var lastErr error
	for attempt := 1; attempt <= joinMaxAttempts; attempt++ {
		attemptCtx, cancel := withStorageTimeout(ctx)
		referral, count, err := s.referralRepo.RecordJoin(attemptCtx, giveawayID, referrerName)
		cancel()
		if err == nil {
			return referral, count, nil
		}
		if !errors.Is(err, repository.ErrUnavailable) {
			return nil, 0, err
		}

		lastErr = err
		if attempt < joinMaxAttempts {
			backoff := time.Duration(attempt) * joinRetryBackoff
			logCtx.WithError(err).Warnf("Transient storage failure recording join, retrying in %s (attempt %d/%d)", backoff, attempt, joinMaxAttempts)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}
	}
	return nil, 0, lastErr
}

// publishJoin 尽力把事件推给实时订阅者，失败只记日志，不影响已提交的加入
func (s *JoinService) publishJoin(ctx context.Context, event domain.JoinEvent) {
	if s.feed == nil {
		return
	}
	if err := s.feed.PublishJoin(ctx, event); err != nil {
		logrus.WithError(err).WithField("giveaway_id", event.GiveawayID).Warn("Failed to publish join event")
	}
}
