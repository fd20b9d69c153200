package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

// VoteResult 投票后的权威状态
type VoteResult struct {
	Ref        model.VotableRef `json:"ref"`
	UpVoters   []string         `json:"up_voters"`
	DownVoters []string         `json:"down_voters"`
}

// VoteEngine 三态投票：same→none / opposite→requested / none→requested。
// 翻转本身是单条条件更新，不同投票人之间不会相互覆盖。
type VoteEngine struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	commentRepo  repository.CommentRepository
	voteRepo     repository.VoteRepository
	hub          *broadcast.Hub
	cache        *cache.QuestionCache
}

func NewVoteEngine(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	hub *broadcast.Hub,
	qc *cache.QuestionCache,
) *VoteEngine {
	return &VoteEngine{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		commentRepo:  commentRepo,
		voteRepo:     voteRepo,
		hub:          hub,
		cache:        qc,
	}
}

// Apply 对指定帖子应用一次投票翻转并广播结果。
// direction: "up" / "down"。帖子不存在返回 ErrNotFound；持久层错误不重试，直接上抛。
func (e *VoteEngine) Apply(ctx context.Context, kind model.PostKind, postID, voterID, direction string) (*VoteResult, error) {
	if !kind.Valid() || postID == "" || voterID == "" {
		return nil, ErrInvalidInput
	}
	var value int
	switch direction {
	case "up":
		value = model.VoteUp
	case "down":
		value = model.VoteDown
	default:
		return nil, ErrInvalidInput
	}

	questionID, err := e.owningQuestion(ctx, kind, postID)
	if err != nil {
		return nil, err
	}
	if err := e.voteRepo.Toggle(ctx, kind, postID, voterID, value); err != nil {
		return nil, err
	}
	// 读回翻转后的完整票面；广播永远发权威状态而不是增量，
	// 乱序到达的旧消息会被下一条覆盖。
	state, err := e.voteRepo.State(ctx, kind, postID)
	if err != nil {
		return nil, err
	}
	res := &VoteResult{
		Ref:        model.VotableRef{Kind: kind, ID: postID},
		UpVoters:   state.UpVoters,
		DownVoters: state.DownVoters,
	}
	e.cache.Invalidate(ctx, questionID)
	e.hub.Publish(broadcast.EventVoteUpdate, map[string]interface{}{
		"id":         postID,
		"up_votes":   res.UpVoters,
		"down_votes": res.DownVoters,
		"kind":       kind,
	})
	logger.Debug("vote applied",
		zap.String("kind", string(kind)), zap.String("post", postID),
		zap.String("voter", voterID), zap.String("direction", direction))
	return res, nil
}

// owningQuestion 校验帖子存在并解析所属问题（comment 的父可能是 answer，需要二跳）
func (e *VoteEngine) owningQuestion(ctx context.Context, kind model.PostKind, postID string) (string, error) {
	switch kind {
	case model.PostKindQuestion:
		ok, err := e.questionRepo.Exists(ctx, postID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrNotFound
		}
		return postID, nil
	case model.PostKindAnswer:
		a, err := e.answerRepo.GetByID(ctx, postID)
		if err != nil {
			return "", asNotFound(err)
		}
		return a.QuestionID, nil
	case model.PostKindComment:
		c, err := e.commentRepo.GetByID(ctx, postID)
		if err != nil {
			return "", asNotFound(err)
		}
		if c.ParentKind == model.PostKindQuestion {
			return c.ParentID, nil
		}
		a, err := e.answerRepo.GetByID(ctx, c.ParentID)
		if err != nil {
			return "", asNotFound(err)
		}
		return a.QuestionID, nil
	}
	return "", ErrInvalidInput
}
