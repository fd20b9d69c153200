package model

import "time"

// Notification 收件箱项（按 recipient_id 切分；内容在创建时快照，之后只翻 read 位）
type Notification struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	RecipientID string    `gorm:"type:varchar(36);index:idx_notif_recipient"`
	ActorID     string    `gorm:"type:varchar(36);index:idx_notif_actor"`
	Kind        EventKind `gorm:"type:varchar(32);not null"`
	Title       string    `gorm:"type:varchar(255)"`
	Body        string    `gorm:"type:text"`
	SubjectKind PostKind  `gorm:"type:varchar(16);not null"`
	SubjectID   string    `gorm:"type:varchar(36);not null"`
	Read        bool      `gorm:"default:false;index:idx_notif_recipient_read"`
	CreatedAt   time.Time `gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }
