package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"giveaway-rooms/internal/domain"
	"giveaway-rooms/internal/repository"
	"giveaway-rooms/internal/tasks"
)

// ReferralReconcileHandler 处理周期性的引荐计数核对任务。
// 它重新统计每个抽奖房间的引荐记录数，并修复计数器漂移。
type ReferralReconcileHandler struct {
	giveawayRepo repository.GiveawayRepository
	referralRepo repository.ReferralRepository
}

// NewReferralReconcileHandler 创建 Handler 实例
func NewReferralReconcileHandler(giveawayRepo repository.GiveawayRepository, referralRepo repository.ReferralRepository) *ReferralReconcileHandler {
	if giveawayRepo == nil {
		panic("GiveawayRepository cannot be nil for ReferralReconcileHandler")
	}
	if referralRepo == nil {
		panic("ReferralRepository cannot be nil for ReferralReconcileHandler")
	}
	return &ReferralReconcileHandler{
		giveawayRepo: giveawayRepo,
		referralRepo: referralRepo,
	}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *ReferralReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
	})

	var payload tasks.ReferralReconcilePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			logCtx.Errorf("Failed to unmarshal reconcile payload: %v", err)
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var giveaways []domain.Giveaway
	var err error
	if payload.GiveawayID != 0 {
		var giveaway *domain.Giveaway
		giveaway, err = h.giveawayRepo.FindByID(opCtx, payload.GiveawayID)
		if giveaway != nil {
			giveaways = []domain.Giveaway{*giveaway}
		}
	} else {
		giveaways, err = h.giveawayRepo.ListAll(opCtx)
	}
	if err != nil {
		logCtx.Errorf("Failed to load giveaways for reconcile: %v", err)
		return fmt.Errorf("load giveaways: %w", err)
	}

	corrected := 0
	for i := range giveaways {
		giveaway := &giveaways[i]
		actual, err := h.referralRepo.CountByGiveaway(opCtx, giveaway.ID)
		if err != nil {
			logCtx.WithField("giveaway_id", giveaway.ID).Errorf("Failed to count referrals: %v", err)
			return fmt.Errorf("count referrals for giveaway %d: %w", giveaway.ID, err)
		}
		if actual == giveaway.ReferralCount {
			continue
		}
		if err := h.giveawayRepo.SetReferralCount(opCtx, giveaway.ID, actual); err != nil {
			logCtx.WithField("giveaway_id", giveaway.ID).Errorf("Failed to repair referral count: %v", err)
			return fmt.Errorf("repair referral count for giveaway %d: %w", giveaway.ID, err)
		}
		logCtx.WithFields(logrus.Fields{
			"giveaway_id": giveaway.ID,
			"stored":      giveaway.ReferralCount,
			"actual":      actual,
		}).Warn("Repaired referral count drift")
		corrected++
	}

	logCtx.WithFields(logrus.Fields{
		"checked":   len(giveaways),
		"corrected": corrected,
	}).Info("Referral reconcile task finished")
	return nil
}
