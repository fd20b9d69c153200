package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type ViewRepository interface {
	// Record 幂等记录浏览（同一用户重复浏览不重复计数）
	Record(ctx context.Context, questionID, userID string) error
	ListViewers(ctx context.Context, questionID string) ([]string, error)
}

type viewRepository struct{ db *gorm.DB }

func NewViewRepository(db *gorm.DB) ViewRepository { return &viewRepository{db: db} }

func (r *viewRepository) Record(ctx context.Context, questionID, userID string) error {
	v := &model.View{ID: uuid.New().String(), QuestionID: questionID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error
}

func (r *viewRepository) ListViewers(ctx context.Context, questionID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&model.View{}).
		Where("question_id = ?", questionID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	return ids, err
}
