package domain

import "time"

// Giveaway 表示一个由创建者拥有的抽奖房间。
// Code 是对外分享的唯一推荐码，ReferralCount 只能通过加入流程递增。
type Giveaway struct {
	ID            uint      `gorm:"primaryKey"`
	OwnerID       uint      `gorm:"index;not null"` // 创建者 ID (外键关联 User.ID)
	RoomName      string    `gorm:"type:varchar(191);not null"`
	ChannelLink   string    `gorm:"type:varchar(512);not null"` // 加入成功后的跳转目标
	Code          string    `gorm:"uniqueIndex:idx_code;size:191;not null"`
	ReferralCount uint64    `gorm:"not null;default:0"` // 与 referrals 表行数保持一致
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
