package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// VoteState 某帖子当前的权威投票状态
type VoteState struct {
	UpVoters   []string
	DownVoters []string
}

type VoteRepository interface {
	// Toggle 应用三态翻转：same→none / opposite→requested / none→requested。
	// 单条条件 upsert，并发投票互不覆盖。
	Toggle(ctx context.Context, kind model.PostKind, postID, userID string, direction int) error
	State(ctx context.Context, kind model.PostKind, postID string) (*VoteState, error)
	Value(ctx context.Context, kind model.PostKind, postID, userID string) (int, error)
}

type voteRepository struct{ db *gorm.DB }

func NewVoteRepository(db *gorm.DB) VoteRepository { return &voteRepository{db: db} }

func (r *voteRepository) Toggle(ctx context.Context, kind model.PostKind, postID, userID string, direction int) error {
	v := &model.Vote{
		ID:       uuid.New().String(),
		PostKind: kind,
		PostID:   postID,
		UserID:   userID,
		Value:    direction,
	}
	// 冲突行上用 CASE 完成翻转：同向撤销置 0，异向/未投直接覆盖为请求值。
	// 整个翻转是一条语句，不存在读-改-写窗口。
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_kind"}, {Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      gorm.Expr("CASE WHEN votes.value = excluded.value THEN ? ELSE excluded.value END", model.VoteNone),
			"updated_at": time.Now(),
		}),
	}).Create(v).Error
}

func (r *voteRepository) State(ctx context.Context, kind model.PostKind, postID string) (*VoteState, error) {
	state := &VoteState{UpVoters: []string{}, DownVoters: []string{}}
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("post_kind = ? AND post_id = ? AND value = ?", kind, postID, model.VoteUp).
		Order("created_at").
		Pluck("user_id", &state.UpVoters).Error
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("post_kind = ? AND post_id = ? AND value = ?", kind, postID, model.VoteDown).
		Order("created_at").
		Pluck("user_id", &state.DownVoters).Error
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (r *voteRepository) Value(ctx context.Context, kind model.PostKind, postID, userID string) (int, error) {
	var v model.Vote
	err := r.db.WithContext(ctx).
		Where("post_kind = ? AND post_id = ? AND user_id = ?", kind, postID, userID).
		First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return model.VoteNone, nil
		}
		return 0, err
	}
	return v.Value, nil
}
