package service

import (
	"time"

	"github.com/d60-Lab/qa-forum/internal/model"
)

// Snapshot 类型是 Populator 的产物：全量展开的只读视图。
// 存储侧（model.*）只有外键引用，展开与否由类型区分，不靠运行时猜。

type UserSnapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type CommentSnapshot struct {
	ID         string       `json:"id"`
	Body       string       `json:"body"`
	Author     UserSnapshot `json:"author"`
	UpVoters   []string     `json:"up_voters"`
	DownVoters []string     `json:"down_voters"`
	CreatedAt  time.Time    `json:"created_at"`
}

type AnswerSnapshot struct {
	ID         string            `json:"id"`
	QuestionID string            `json:"question_id"`
	Body       string            `json:"body"`
	Author     UserSnapshot      `json:"author"`
	UpVoters   []string          `json:"up_voters"`
	DownVoters []string          `json:"down_voters"`
	Comments   []CommentSnapshot `json:"comments"`
	CreatedAt  time.Time         `json:"created_at"`
}

type TagSnapshot struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Subscribers []string `json:"subscribers"`
}

type QuestionSnapshot struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Author      UserSnapshot      `json:"author"`
	Tags        []TagSnapshot     `json:"tags"`
	Answers     []AnswerSnapshot  `json:"answers"`
	Comments    []CommentSnapshot `json:"comments"`
	Subscribers []string          `json:"subscribers"`
	Viewers     []string          `json:"viewers"`
	UpVoters    []string          `json:"up_voters"`
	DownVoters  []string          `json:"down_voters"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AnswerCount header 视图用的回答数，恒等于 len(Answers)
func (q *QuestionSnapshot) AnswerCount() int { return len(q.Answers) }

type NotificationSnapshot struct {
	ID          string          `json:"id"`
	Kind        model.EventKind `json:"kind"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	SubjectKind model.PostKind  `json:"subject_kind"`
	SubjectID   string          `json:"subject_id"`
	ActorID     string          `json:"actor_id"`
	Read        bool            `json:"read"`
	CreatedAt   time.Time       `json:"created_at"`
}

type UserProfileSnapshot struct {
	UserSnapshot
	Inbox       []NotificationSnapshot `json:"inbox"`
	UnreadCount int64                  `json:"unread_count"`
}

func newUserSnapshot(u *model.User) UserSnapshot {
	return UserSnapshot{ID: u.ID, Username: u.Username, Email: u.Email}
}

func newNotificationSnapshot(n *model.Notification) NotificationSnapshot {
	return NotificationSnapshot{
		ID:          n.ID,
		Kind:        n.Kind,
		Title:       n.Title,
		Body:        n.Body,
		SubjectKind: n.SubjectKind,
		SubjectID:   n.SubjectID,
		ActorID:     n.ActorID,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
