package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// PostService 负责问题/回答/评论的落地与后续 fanout、populate、广播。
// 主文档写入是强一致的；其后的通知与广播是尽力而为——
// 第 N 步失败时，1..N-1 步的效果已提交，不回滚。
type PostService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	commentRepo  repository.CommentRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	subRepo      repository.SubscriptionRepository
	notifRepo    repository.NotificationRepository
	fanout       *NotificationFanout
	populator    *Populator
	hub          *broadcast.Hub
	cache        *cache.QuestionCache
}

func NewPostService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	notifRepo repository.NotificationRepository,
	fanout *NotificationFanout,
	populator *Populator,
	hub *broadcast.Hub,
	qc *cache.QuestionCache,
) *PostService {
	return &PostService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		commentRepo:  commentRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		subRepo:      subRepo,
		notifRepo:    notifRepo,
		fanout:       fanout,
		populator:    populator,
		hub:          hub,
		cache:        qc,
	}
}

// CreateQuestion 建题：事务内写入问题 + 标签关联，并用
// 作者 ∪ 标签订阅者 seed 订阅集合；随后给标签订阅者发 taggedQuestionPosted。
func (s *PostService) CreateQuestion(ctx context.Context, title, body, authorID string, tagNames []string) (*QuestionSnapshot, error) {
	if title == "" || authorID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, asNotFound(err)
	}
	tags, err := s.tagRepo.EnsureByNames(ctx, tagNames)
	if err != nil {
		return nil, err
	}
	seed := []string{authorID}
	seen := map[string]struct{}{authorID: {}}
	tagIDs := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
		subs, err := s.subRepo.ListSubscribers(ctx, model.EntityKindTag, t.ID)
		if err != nil {
			return nil, err
		}
		for _, uid := range subs {
			if _, ok := seen[uid]; ok {
				continue
			}
			seen[uid] = struct{}{}
			seed = append(seed, uid)
		}
	}
	now := time.Now()
	q := &model.Question{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.questionRepo.Create(ctx, q, tagIDs, seed); err != nil {
		return nil, err
	}

	// 主写入已提交，以下失败均不回滚
	s.fanoutAndPush(ctx, q.ID, model.EventTaggedQuestionPosted, authorID,
		model.VotableRef{Kind: model.PostKindQuestion, ID: q.ID})
	snap, err := s.populator.Question(ctx, q.ID)
	if err != nil {
		logger.Error("populate after question create failed", zap.String("question", q.ID), zap.Error(err))
		return nil, err
	}
	return snap, nil
}

// PostAnswer 发回答：写回答 → fanout questionAnswered → populate → 广播 answerUpdate。
func (s *PostService) PostAnswer(ctx context.Context, questionID, authorID, content string) (*AnswerSnapshot, error) {
	if questionID == "" || authorID == "" || content == "" {
		return nil, ErrInvalidInput
	}
	ok, err := s.questionRepo.Exists(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, asNotFound(err)
	}
	now := time.Now()
	a := &model.Answer{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.answerRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, questionID)
	s.fanoutAndPush(ctx, questionID, model.EventAnswered, authorID,
		model.VotableRef{Kind: model.PostKindAnswer, ID: a.ID})

	snap, err := s.populator.Answer(ctx, a.ID)
	if err != nil {
		logger.Error("populate after answer failed", zap.String("answer", a.ID), zap.Error(err))
		return nil, err
	}
	s.hub.Publish(broadcast.EventAnswerUpdate, map[string]interface{}{
		"question_id": questionID,
		"answer":      snap,
	})
	return snap, nil
}

// PostComment 发评论：父帖可以是问题或回答；广播带变更后的整棵问题树。
func (s *PostService) PostComment(ctx context.Context, parentKind model.PostKind, parentID, authorID, content string) (*CommentSnapshot, error) {
	if parentID == "" || authorID == "" || content == "" {
		return nil, ErrInvalidInput
	}
	if parentKind != model.PostKindQuestion && parentKind != model.PostKindAnswer {
		return nil, ErrInvalidInput
	}
	questionID, err := s.resolveOwningQuestion(ctx, parentKind, parentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, asNotFound(err)
	}
	now := time.Now()
	c := &model.Comment{
		ID:         uuid.New().String(),
		ParentKind: parentKind,
		ParentID:   parentID,
		AuthorID:   authorID,
		Body:       content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, questionID)
	s.fanoutAndPush(ctx, questionID, model.EventCommented, authorID,
		model.VotableRef{Kind: model.PostKindComment, ID: c.ID})

	qsnap, err := s.populator.Question(ctx, questionID)
	if err != nil {
		logger.Error("populate after comment failed", zap.String("comment", c.ID), zap.Error(err))
		return nil, err
	}
	s.hub.Publish(broadcast.EventCommentUpdate, map[string]interface{}{
		"result": qsnap,
		"kind":   parentKind,
	})
	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return &CommentSnapshot{
		ID:         c.ID,
		Body:       c.Body,
		Author:     newUserSnapshot(author),
		UpVoters:   []string{},
		DownVoters: []string{},
		CreatedAt:  c.CreatedAt,
	}, nil
}

// MarkNotificationRead 翻转收件箱项的 read 位并返回更新后的用户档案
func (s *PostService) MarkNotificationRead(ctx context.Context, userID, notificationID string) (*UserProfileSnapshot, error) {
	if userID == "" || notificationID == "" {
		return nil, ErrInvalidInput
	}
	ok, err := s.notifRepo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.populator.User(ctx, userID)
}

// fanoutAndPush 投递通知并对每个成功的收件人做定向推送。
// 任何失败只记录；触发它的主变更已经成立。
func (s *PostService) fanoutAndPush(ctx context.Context, questionID string, kind model.EventKind, actorID string, subject model.VotableRef) {
	res, err := s.fanout.NotifySubscribers(ctx, questionID, kind, actorID, subject)
	if err != nil {
		logger.Error("notification fanout failed",
			zap.String("question", questionID), zap.String("event", string(kind)), zap.Error(err))
		return
	}
	if res.PartialFailure() {
		logger.Warn("partial fanout failure",
			zap.String("question", questionID), zap.Int("failed", len(res.Failed)))
	}
	for _, d := range res.Delivered {
		// 个人通知只推给鉴权为该收件人的连接
		s.hub.PublishTo(d.RecipientID, broadcast.EventNotificationUpdate, map[string]interface{}{
			"notification": newNotificationSnapshot(d.Notification),
			"kind":         kind,
			"recipient_id": d.RecipientID,
		})
	}
}

func (s *PostService) resolveOwningQuestion(ctx context.Context, parentKind model.PostKind, parentID string) (string, error) {
	if parentKind == model.PostKindQuestion {
		ok, err := s.questionRepo.Exists(ctx, parentID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrNotFound
		}
		return parentID, nil
	}
	a, err := s.answerRepo.GetByID(ctx, parentID)
	if err != nil {
		return "", asNotFound(err)
	}
	return a.QuestionID, nil
}
