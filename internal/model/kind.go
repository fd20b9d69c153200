package model

// PostKind 帖子类型（显式 tag，禁止运行时类型判断）
type PostKind string

const (
	PostKindQuestion PostKind = "question"
	PostKindAnswer   PostKind = "answer"
	PostKindComment  PostKind = "comment"
)

func (k PostKind) Valid() bool {
	switch k {
	case PostKindQuestion, PostKindAnswer, PostKindComment:
		return true
	}
	return false
}

// EntityKind 订阅目标类型
type EntityKind string

const (
	EntityKindQuestion EntityKind = "question"
	EntityKindTag      EntityKind = "tag"
)

func (k EntityKind) Valid() bool {
	return k == EntityKindQuestion || k == EntityKindTag
}

// EventKind 触发通知的事件类型
type EventKind string

const (
	EventAnswered             EventKind = "questionAnswered"
	EventCommented            EventKind = "postCommented"
	EventTaggedQuestionPosted EventKind = "taggedQuestionPosted"
)

// VotableRef 指向任意可投票帖子
type VotableRef struct {
	Kind PostKind `json:"kind"`
	ID   string   `json:"id"`
}
