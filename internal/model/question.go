package model

import "time"

// Question 问题主体（answers/comments/votes/subscribers 均在独立表）
type Question struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Body      string    `gorm:"type:text"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_question_author;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Question) TableName() string { return "questions" }

// QuestionTag 问题与标签的关联
// ux_question_tag = (question_id, tag_id)
type QuestionTag struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	QuestionID string `gorm:"type:varchar(36);index:idx_qt_question;uniqueIndex:ux_question_tag"`
	TagID      string `gorm:"type:varchar(36);index:idx_qt_tag;uniqueIndex:ux_question_tag"`
}

func (QuestionTag) TableName() string { return "question_tags" }
