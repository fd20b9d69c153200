package model

import "time"

// Comment 评论，可挂在问题或回答下（parent_kind 区分）
type Comment struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	ParentKind PostKind  `gorm:"type:varchar(16);index:idx_comment_parent;not null"`
	ParentID   string    `gorm:"type:varchar(36);index:idx_comment_parent;not null"`
	AuthorID   string    `gorm:"type:varchar(36);index:idx_comment_author;not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (Comment) TableName() string { return "comments" }
