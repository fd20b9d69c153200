package model

import "time"

// Subscription 订阅关系（user 订阅 question 或 tag）
// ux_sub_entity_user = (entity_kind, entity_id, user_id)，避免重复订阅
type Subscription struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)"`
	EntityKind EntityKind `gorm:"type:varchar(16);uniqueIndex:ux_sub_entity_user;not null"`
	EntityID   string     `gorm:"type:varchar(36);index:idx_sub_entity;uniqueIndex:ux_sub_entity_user;not null"`
	UserID     string     `gorm:"type:varchar(36);index:idx_sub_user;uniqueIndex:ux_sub_entity_user;not null"`
	CreatedAt  time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
