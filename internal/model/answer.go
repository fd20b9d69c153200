package model

import "time"

// Answer 回答（归属问题通过 question_id 反向引用）
type Answer struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	QuestionID string    `gorm:"type:varchar(36);index:idx_answer_question;not null"`
	AuthorID   string    `gorm:"type:varchar(36);index:idx_answer_author;not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (Answer) TableName() string { return "answers" }
