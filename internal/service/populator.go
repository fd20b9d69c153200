package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

// Populator 从外键引用重建全量嵌套视图（纯读，不做任何变更）。
// 每次可见结构变更后都必须重新 populate，广播的是变更后的权威状态。
type Populator struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	commentRepo  repository.CommentRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	voteRepo     repository.VoteRepository
	subRepo      repository.SubscriptionRepository
	viewRepo     repository.ViewRepository
	notifRepo    repository.NotificationRepository
}

func NewPopulator(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	subRepo repository.SubscriptionRepository,
	viewRepo repository.ViewRepository,
	notifRepo repository.NotificationRepository,
) *Populator {
	return &Populator{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		commentRepo:  commentRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		voteRepo:     voteRepo,
		subRepo:      subRepo,
		viewRepo:     viewRepo,
		notifRepo:    notifRepo,
	}
}

// Question 展开问题全树：tags（含订阅者）、answers（作者+评论）、自身评论、作者、订阅者、浏览者、票面。
func (p *Populator) Question(ctx context.Context, id string) (*QuestionSnapshot, error) {
	q, err := p.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	author, err := p.resolveUser(ctx, q.AuthorID, "question", q.ID)
	if err != nil {
		return nil, err
	}
	tags, err := p.questionTags(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	answers, err := p.questionAnswers(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	comments, err := p.comments(ctx, model.PostKindQuestion, q.ID)
	if err != nil {
		return nil, err
	}
	subscribers, err := p.subRepo.ListSubscribers(ctx, model.EntityKindQuestion, q.ID)
	if err != nil {
		return nil, err
	}
	viewers, err := p.viewRepo.ListViewers(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	votes, err := p.voteRepo.State(ctx, model.PostKindQuestion, q.ID)
	if err != nil {
		return nil, err
	}
	return &QuestionSnapshot{
		ID:          q.ID,
		Title:       q.Title,
		Body:        q.Body,
		Author:      author,
		Tags:        tags,
		Answers:     answers,
		Comments:    comments,
		Subscribers: subscribers,
		Viewers:     viewers,
		UpVoters:    votes.UpVoters,
		DownVoters:  votes.DownVoters,
		CreatedAt:   q.CreatedAt,
	}, nil
}

func (p *Populator) Answer(ctx context.Context, id string) (*AnswerSnapshot, error) {
	a, err := p.answerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return p.answerSnapshot(ctx, a)
}

// Tag 按名字查标签，带订阅者集合
func (p *Populator) Tag(ctx context.Context, name string) (*TagSnapshot, error) {
	t, err := p.tagRepo.GetByName(ctx, name)
	if err != nil {
		return nil, asNotFound(err)
	}
	return p.tagSnapshot(ctx, t)
}

func (p *Populator) TagByID(ctx context.Context, id string) (*TagSnapshot, error) {
	tags, err := p.tagRepo.GetByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrNotFound
	}
	return p.tagSnapshot(ctx, tags[0])
}

// User 用户档案 + 收件箱（时间倒序）+ 未读数
func (p *Populator) User(ctx context.Context, id string) (*UserProfileSnapshot, error) {
	u, err := p.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	notifs, err := p.notifRepo.ListByRecipient(ctx, id)
	if err != nil {
		return nil, err
	}
	unread, err := p.notifRepo.CountUnread(ctx, id)
	if err != nil {
		return nil, err
	}
	inbox := make([]NotificationSnapshot, 0, len(notifs))
	for _, n := range notifs {
		inbox = append(inbox, newNotificationSnapshot(n))
	}
	return &UserProfileSnapshot{
		UserSnapshot: newUserSnapshot(u),
		Inbox:        inbox,
		UnreadCount:  unread,
	}, nil
}

func (p *Populator) questionTags(ctx context.Context, questionID string) ([]TagSnapshot, error) {
	tagIDs, err := p.questionRepo.ListTagIDs(ctx, questionID)
	if err != nil {
		return nil, err
	}
	tags, err := p.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		// 引用的标签记录丢失不是空字段，是结构性错误
		return nil, fmt.Errorf("%w: question %s references missing tag", ErrDataIntegrity, questionID)
	}
	res := make([]TagSnapshot, 0, len(tags))
	for _, t := range tags {
		snap, err := p.tagSnapshot(ctx, t)
		if err != nil {
			return nil, err
		}
		res = append(res, *snap)
	}
	return res, nil
}

func (p *Populator) questionAnswers(ctx context.Context, questionID string) ([]AnswerSnapshot, error) {
	answers, err := p.answerRepo.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	res := make([]AnswerSnapshot, 0, len(answers))
	for _, a := range answers {
		snap, err := p.answerSnapshot(ctx, a)
		if err != nil {
			return nil, err
		}
		res = append(res, *snap)
	}
	return res, nil
}

func (p *Populator) answerSnapshot(ctx context.Context, a *model.Answer) (*AnswerSnapshot, error) {
	author, err := p.resolveUser(ctx, a.AuthorID, "answer", a.ID)
	if err != nil {
		return nil, err
	}
	comments, err := p.comments(ctx, model.PostKindAnswer, a.ID)
	if err != nil {
		return nil, err
	}
	votes, err := p.voteRepo.State(ctx, model.PostKindAnswer, a.ID)
	if err != nil {
		return nil, err
	}
	return &AnswerSnapshot{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Body:       a.Body,
		Author:     author,
		UpVoters:   votes.UpVoters,
		DownVoters: votes.DownVoters,
		Comments:   comments,
		CreatedAt:  a.CreatedAt,
	}, nil
}

func (p *Populator) comments(ctx context.Context, kind model.PostKind, parentID string) ([]CommentSnapshot, error) {
	comments, err := p.commentRepo.ListByParent(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}
	res := make([]CommentSnapshot, 0, len(comments))
	for _, c := range comments {
		author, err := p.resolveUser(ctx, c.AuthorID, "comment", c.ID)
		if err != nil {
			return nil, err
		}
		votes, err := p.voteRepo.State(ctx, model.PostKindComment, c.ID)
		if err != nil {
			return nil, err
		}
		res = append(res, CommentSnapshot{
			ID:         c.ID,
			Body:       c.Body,
			Author:     author,
			UpVoters:   votes.UpVoters,
			DownVoters: votes.DownVoters,
			CreatedAt:  c.CreatedAt,
		})
	}
	return res, nil
}

func (p *Populator) tagSnapshot(ctx context.Context, t *model.Tag) (*TagSnapshot, error) {
	subscribers, err := p.subRepo.ListSubscribers(ctx, model.EntityKindTag, t.ID)
	if err != nil {
		return nil, err
	}
	return &TagSnapshot{ID: t.ID, Name: t.Name, Description: t.Description, Subscribers: subscribers}, nil
}

// resolveUser 嵌套引用里的作者必须能解析，否则视为数据完整性错误
func (p *Populator) resolveUser(ctx context.Context, userID, ownerKind, ownerID string) (UserSnapshot, error) {
	u, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		if asNotFound(err) == ErrNotFound {
			return UserSnapshot{}, fmt.Errorf("%w: %s %s references missing user %s", ErrDataIntegrity, ownerKind, ownerID, userID)
		}
		return UserSnapshot{}, err
	}
	return newUserSnapshot(u), nil
}
