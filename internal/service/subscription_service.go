package service

import (
	"context"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

// SubscribeResult 翻转后的实体快照
type SubscribeResult struct {
	Kind       model.EntityKind  `json:"kind"`
	Subscribed bool              `json:"subscribed"`
	Question   *QuestionSnapshot `json:"question,omitempty"`
	Tag        *TagSnapshot      `json:"tag,omitempty"`
}

// SubscriptionRegistry 订阅集合的二元翻转。订阅/退订本身不产生通知。
type SubscriptionRegistry struct {
	questionRepo repository.QuestionRepository
	tagRepo      repository.TagRepository
	subRepo      repository.SubscriptionRepository
	populator    *Populator
	hub          *broadcast.Hub
	cache        *cache.QuestionCache
}

func NewSubscriptionRegistry(
	questionRepo repository.QuestionRepository,
	tagRepo repository.TagRepository,
	subRepo repository.SubscriptionRepository,
	populator *Populator,
	hub *broadcast.Hub,
	qc *cache.QuestionCache,
) *SubscriptionRegistry {
	return &SubscriptionRegistry{
		questionRepo: questionRepo,
		tagRepo:      tagRepo,
		subRepo:      subRepo,
		populator:    populator,
		hub:          hub,
		cache:        qc,
	}
}

// Toggle 翻转 user 在 question/tag 订阅集合中的成员资格，返回变更后的完整快照。
func (s *SubscriptionRegistry) Toggle(ctx context.Context, kind model.EntityKind, entityID, userID string) (*SubscribeResult, error) {
	if !kind.Valid() || entityID == "" || userID == "" {
		return nil, ErrInvalidInput
	}
	switch kind {
	case model.EntityKindQuestion:
		ok, err := s.questionRepo.Exists(ctx, entityID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotFound
		}
	case model.EntityKindTag:
		tags, err := s.tagRepo.GetByIDs(ctx, []string{entityID})
		if err != nil {
			return nil, err
		}
		if len(tags) == 0 {
			return nil, ErrNotFound
		}
	}
	subscribed, err := s.subRepo.Toggle(ctx, kind, entityID, userID)
	if err != nil {
		return nil, err
	}
	res := &SubscribeResult{Kind: kind, Subscribed: subscribed}
	switch kind {
	case model.EntityKindQuestion:
		s.cache.Invalidate(ctx, entityID)
		snap, err := s.populator.Question(ctx, entityID)
		if err != nil {
			return nil, err
		}
		res.Question = snap
	case model.EntityKindTag:
		snap, err := s.populator.TagByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		res.Tag = snap
	}
	s.hub.Publish(broadcast.EventSubscriberUpdate, map[string]interface{}{
		"result": res,
		"kind":   kind,
	})
	return res, nil
}
