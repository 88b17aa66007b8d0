package domain

import "time"

// Referral 表示一次成功的加入记录。写入后不再修改。
type Referral struct {
	ID           uint      `gorm:"primaryKey"`
	GiveawayID   uint      `gorm:"index;not null"` // 所属抽奖 ID (外键关联 Giveaway.ID, 级联删除)
	ReferrerName string    `gorm:"type:varchar(191);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// JoinEvent 是加入成功后发布到实时推送通道的事件。
type JoinEvent struct {
	GiveawayID    uint      `json:"giveaway_id"`
	ReferrerName  string    `json:"referrer_name"`
	ReferralCount uint64    `json:"referral_count"`
	JoinedAt      time.Time `json:"joined_at"`
}
