package model

import "time"

// 投票值域：+1 赞、-1 踩、0 未投（撤销后保留行）
const (
	VoteUp   = 1
	VoteNone = 0
	VoteDown = -1
)

// Vote 单用户对单帖子的投票状态，一行即三态
// ux_vote_post_user = (post_kind, post_id, user_id)，互斥性由唯一键保证
type Vote struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	PostKind  PostKind  `gorm:"type:varchar(16);uniqueIndex:ux_vote_post_user;not null"`
	PostID    string    `gorm:"type:varchar(36);index:idx_vote_post;uniqueIndex:ux_vote_post_user;not null"`
	UserID    string    `gorm:"type:varchar(36);uniqueIndex:ux_vote_post_user;not null"`
	Value     int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Vote) TableName() string { return "votes" }
