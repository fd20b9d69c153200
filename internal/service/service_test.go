package service

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
)

// fixture 把全部仓储与核心组件装配到一个 sqlite :memory: 库上
type fixture struct {
	db           *gorm.DB
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	commentRepo  repository.CommentRepository
	tagRepo      repository.TagRepository
	userRepo     repository.UserRepository
	voteRepo     repository.VoteRepository
	subRepo      repository.SubscriptionRepository
	viewRepo     repository.ViewRepository
	notifRepo    repository.NotificationRepository
	populator    *Populator
	fanout       *NotificationFanout
	hub          *broadcast.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.User{}, &model.Question{}, &model.QuestionTag{}, &model.Answer{},
		&model.Comment{}, &model.Tag{}, &model.Vote{}, &model.Subscription{},
		&model.Notification{}, &model.View{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	f := &fixture{
		db:           db,
		questionRepo: repository.NewQuestionRepository(db),
		answerRepo:   repository.NewAnswerRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		userRepo:     repository.NewUserRepository(db),
		voteRepo:     repository.NewVoteRepository(db),
		subRepo:      repository.NewSubscriptionRepository(db),
		viewRepo:     repository.NewViewRepository(db),
		notifRepo:    repository.NewNotificationRepository(db),
		hub:          broadcast.NewHub(8),
	}
	f.populator = NewPopulator(f.questionRepo, f.answerRepo, f.commentRepo, f.tagRepo,
		f.userRepo, f.voteRepo, f.subRepo, f.viewRepo, f.notifRepo)
	f.fanout = NewNotificationFanout(f.questionRepo, f.answerRepo, f.commentRepo, f.subRepo, f.notifRepo)
	return f
}

func (f *fixture) voteEngine() *VoteEngine {
	return NewVoteEngine(f.questionRepo, f.answerRepo, f.commentRepo, f.voteRepo, f.hub, nil)
}

func (f *fixture) subscriptionRegistry() *SubscriptionRegistry {
	return NewSubscriptionRegistry(f.questionRepo, f.tagRepo, f.subRepo, f.populator, f.hub, nil)
}

func (f *fixture) postService() *PostService {
	return NewPostService(f.questionRepo, f.answerRepo, f.commentRepo, f.tagRepo, f.userRepo,
		f.subRepo, f.notifRepo, f.fanout, f.populator, f.hub, nil)
}

func (f *fixture) mustUser(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := f.userRepo.Create(context.Background(), name, name+"@example.com", "p")
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) mustQuestion(t *testing.T, authorID, title string, tagNames ...string) *QuestionSnapshot {
	t.Helper()
	snap, err := f.postService().CreateQuestion(context.Background(), title, "body of "+title, authorID, tagNames)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return snap
}
