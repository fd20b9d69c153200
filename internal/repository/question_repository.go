package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type QuestionRepository interface {
	// Create 在一个事务内落地问题、标签关联，并 seed 订阅集合
	// （作者 ∪ 各标签订阅者；之后只通过显式订阅翻转变更）。
	Create(ctx context.Context, q *model.Question, tagIDs, seedSubscriberIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Question, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListTagIDs(ctx context.Context, questionID string) ([]string, error)
}

type questionRepository struct{ db *gorm.DB }

func NewQuestionRepository(db *gorm.DB) QuestionRepository { return &questionRepository{db: db} }

func (r *questionRepository) Create(ctx context.Context, q *model.Question, tagIDs, seedSubscriberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			qt := &model.QuestionTag{ID: uuid.New().String(), QuestionID: q.ID, TagID: tagID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(qt).Error; err != nil {
				return err
			}
		}
		for _, userID := range seedSubscriberIDs {
			s := &model.Subscription{
				ID:         uuid.New().String(),
				EntityKind: model.EntityKindQuestion,
				EntityID:   q.ID,
				UserID:     userID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *questionRepository) ListTagIDs(ctx context.Context, questionID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&model.QuestionTag{}).
		Where("question_id = ?", questionID).
		Pluck("tag_id", &ids).Error
	return ids, err
}
