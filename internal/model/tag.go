package model

import "time"

// Tag 标签（name 全局唯一）
type Tag struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Name        string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Tag) TableName() string { return "tags" }
