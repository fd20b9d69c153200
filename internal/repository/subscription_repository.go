package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

type SubscriptionRepository interface {
	// Toggle 订阅翻转：在订 → 退订，未订 → 订阅。返回翻转后是否在订。
	Toggle(ctx context.Context, kind model.EntityKind, entityID, userID string) (bool, error)
	// Add 幂等加入订阅集合（问题创建时 seeding 用）
	Add(ctx context.Context, kind model.EntityKind, entityID, userID string) error
	ListSubscribers(ctx context.Context, kind model.EntityKind, entityID string) ([]string, error)
	Exists(ctx context.Context, kind model.EntityKind, entityID, userID string) (bool, error)
}

type subscriptionRepository struct{ db *gorm.DB }

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Toggle(ctx context.Context, kind model.EntityKind, entityID, userID string) (bool, error) {
	subscribed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("entity_kind = ? AND entity_id = ? AND user_id = ?", kind, entityID, userID).
			Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		subscribed = true
		s := &model.Subscription{
			ID:         uuid.New().String(),
			EntityKind: kind,
			EntityID:   entityID,
			UserID:     userID,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error
	})
	return subscribed, err
}

func (r *subscriptionRepository) Add(ctx context.Context, kind model.EntityKind, entityID, userID string) error {
	s := &model.Subscription{
		ID:         uuid.New().String(),
		EntityKind: kind,
		EntityID:   entityID,
		UserID:     userID,
	}
	// 幂等：重复订阅不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, kind model.EntityKind, entityID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("entity_kind = ? AND entity_id = ?", kind, entityID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *subscriptionRepository) Exists(ctx context.Context, kind model.EntityKind, entityID, userID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("entity_kind = ? AND entity_id = ? AND user_id = ?", kind, entityID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
