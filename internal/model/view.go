package model

import "time"

// View 浏览记录（每用户每问题只记一次）
// ux_view_question_user = (question_id, user_id)
type View struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	QuestionID string    `gorm:"type:varchar(36);index:idx_view_question;uniqueIndex:ux_view_question_user"`
	UserID     string    `gorm:"type:varchar(36);uniqueIndex:ux_view_question_user"`
	CreatedAt  time.Time
}

func (View) TableName() string { return "views" }
