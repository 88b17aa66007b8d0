package tasks

import (
	"encoding/json"
)

// 定义任务类型常量
const (
	TypeReferralReconcile = "referral:reconcile" // 引荐计数核对任务类型
)

// ReferralReconcilePayload 定义了引荐计数核对任务的数据结构。
// GiveawayID 为 0 时表示核对所有抽奖房间。
type ReferralReconcilePayload struct {
	GiveawayID uint
}

// NewReferralReconcileTask 创建一个新的引荐计数核对任务的 payload
func NewReferralReconcileTask(giveawayID uint) ([]byte, error) {
	payload := ReferralReconcilePayload{
		GiveawayID: giveawayID,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}
