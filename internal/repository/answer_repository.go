package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type AnswerRepository interface {
	Create(ctx context.Context, a *model.Answer) error
	GetByID(ctx context.Context, id string) (*model.Answer, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByQuestion(ctx context.Context, questionID string) ([]*model.Answer, error)
}

type answerRepository struct{ db *gorm.DB }

func NewAnswerRepository(db *gorm.DB) AnswerRepository { return &answerRepository{db: db} }

func (r *answerRepository) Create(ctx context.Context, a *model.Answer) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *answerRepository) GetByID(ctx context.Context, id string) (*model.Answer, error) {
	var a model.Answer
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *answerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Answer{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID string) ([]*model.Answer, error) {
	var res []*model.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at").
		Find(&res).Error
	return res, err
}
