package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type TagRepository interface {
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.Tag, error)
	// EnsureByNames 返回给定名字的标签，缺失的自动创建
	EnsureByNames(ctx context.Context, names []string) ([]*model.Tag, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Tag, error) {
	res := []*model.Tag{}
	if len(ids) == 0 {
		return res, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&res).Error
	return res, err
}

func (r *tagRepository) EnsureByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	res := make([]*model.Tag, 0, len(names))
	for _, name := range names {
		t := &model.Tag{ID: uuid.New().String(), Name: name}
		// 已存在则忽略，再按名字读回权威行
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(t).Error; err != nil {
			return nil, err
		}
		got, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		res = append(res, got)
	}
	return res, nil
}
