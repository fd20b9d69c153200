package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// Delivery 一次成功投递：通知副本 + 收件人
type Delivery struct {
	Notification *model.Notification `json:"notification"`
	RecipientID  string              `json:"recipient_id"`
}

// FanoutFailure 单收件人投递失败，不影响其余收件人
type FanoutFailure struct {
	RecipientID string
	Err         error
}

// FanoutResult 一次 fanout 的逐收件人结果
type FanoutResult struct {
	Delivered []Delivery
	Failed    []FanoutFailure
}

// PartialFailure 是否有收件人投递失败（非致命，主变更不回滚）
func (r *FanoutResult) PartialFailure() bool { return len(r.Failed) > 0 }

// NotificationFanout 把一条事件通知投递到订阅者收件箱。
// 逐收件人独立写入，不在一个事务里；至多一次，不重试。
type NotificationFanout struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	commentRepo  repository.CommentRepository
	subRepo      repository.SubscriptionRepository
	notifRepo    repository.NotificationRepository
}

func NewNotificationFanout(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	commentRepo repository.CommentRepository,
	subRepo repository.SubscriptionRepository,
	notifRepo repository.NotificationRepository,
) *NotificationFanout {
	return &NotificationFanout{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		commentRepo:  commentRepo,
		subRepo:      subRepo,
		notifRepo:    notifRepo,
	}
}

// NotifySubscribers 向问题当前订阅者（事件发生时刻的集合，不是建题时刻）投递通知。
// actor 永远被排除——用户不收到自己动作的通知；比较用稳定 user id，不用展示名。
func (f *NotificationFanout) NotifySubscribers(
	ctx context.Context,
	questionID string,
	kind model.EventKind,
	actorID string,
	subject model.VotableRef,
) (*FanoutResult, error) {
	q, err := f.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, asNotFound(err)
	}
	subscribers, err := f.subRepo.ListSubscribers(ctx, model.EntityKindQuestion, questionID)
	if err != nil {
		return nil, err
	}
	// 内容在此刻快照，之后源帖被编辑也不再变
	title, body, err := f.composeContent(ctx, q, kind, subject)
	if err != nil {
		return nil, err
	}

	res := &FanoutResult{}
	now := time.Now()
	for _, recipientID := range subscribers {
		if recipientID == actorID {
			continue
		}
		n := &model.Notification{
			ID:          uuid.New().String(),
			RecipientID: recipientID,
			ActorID:     actorID,
			Kind:        kind,
			Title:       title,
			Body:        body,
			SubjectKind: subject.Kind,
			SubjectID:   subject.ID,
			Read:        false,
			CreatedAt:   now,
		}
		if err := f.notifRepo.Deliver(ctx, n); err != nil {
			// 单收件人失败只记录，继续投其余人
			logger.Warn("notification delivery failed",
				zap.String("recipient", recipientID),
				zap.String("question", questionID),
				zap.Error(err))
			res.Failed = append(res.Failed, FanoutFailure{RecipientID: recipientID, Err: err})
			continue
		}
		res.Delivered = append(res.Delivered, Delivery{Notification: n, RecipientID: recipientID})
	}
	return res, nil
}

// composeContent 按事件类型取主体帖的内容快照
func (f *NotificationFanout) composeContent(ctx context.Context, q *model.Question, kind model.EventKind, subject model.VotableRef) (string, string, error) {
	switch kind {
	case model.EventAnswered:
		a, err := f.answerRepo.GetByID(ctx, subject.ID)
		if err != nil {
			return "", "", asNotFound(err)
		}
		return fmt.Sprintf("New answer on: %s", q.Title), a.Body, nil
	case model.EventCommented:
		c, err := f.commentRepo.GetByID(ctx, subject.ID)
		if err != nil {
			return "", "", asNotFound(err)
		}
		return fmt.Sprintf("New comment on: %s", q.Title), c.Body, nil
	case model.EventTaggedQuestionPosted:
		return fmt.Sprintf("New question: %s", q.Title), q.Title, nil
	}
	return "", "", ErrInvalidInput
}
