package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

type testEnv struct {
	router *gin.Engine
	users  repository.UserRepository
	notifs repository.NotificationRepository
	subs   repository.SubscriptionRepository
	posts  *service.PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidations()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	viewRepo := repository.NewViewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	hub := broadcast.NewHub(8)
	populator := service.NewPopulator(questionRepo, answerRepo, commentRepo, tagRepo,
		userRepo, voteRepo, subRepo, viewRepo, notifRepo)
	fanout := service.NewNotificationFanout(questionRepo, answerRepo, commentRepo, subRepo, notifRepo)
	votes := service.NewVoteEngine(questionRepo, answerRepo, commentRepo, voteRepo, hub, nil)
	subs := service.NewSubscriptionRegistry(questionRepo, tagRepo, subRepo, populator, hub, nil)
	posts := service.NewPostService(questionRepo, answerRepo, commentRepo, tagRepo, userRepo,
		subRepo, notifRepo, fanout, populator, hub, nil)
	views := service.NewViewRecorder(viewRepo, populator, hub, nil, 16)

	h := New(votes, subs, posts, populator, views, hub, nil, "test-secret")
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/vote/:kind", h.Vote)
	v1.POST("/subscribe", h.Subscribe)
	v1.POST("/questions", h.CreateQuestion)
	v1.POST("/answers", h.PostAnswer)
	v1.POST("/comments", h.PostComment)
	v1.PUT("/notifications/read", h.MarkNotificationRead)
	v1.GET("/questions/:id", h.GetQuestion)
	v1.GET("/users/:id", h.GetUser)

	return &testEnv{router: r, users: userRepo, notifs: notifRepo, subs: subRepo, posts: posts}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, &resp
}

func TestVoteEndpoint(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author, err := e.users.Create(ctx, "author", "author@example.com", "p")
	require.NoError(t, err)
	q, err := e.posts.CreateQuestion(ctx, "endpoint test", "", author.ID, nil)
	require.NoError(t, err)

	w, resp := e.do(t, http.MethodPost, "/api/v1/vote/question", gin.H{
		"id": q.ID, "voter_id": author.ID, "direction": "up",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Len(t, data["up_votes"], 1)
	assert.Empty(t, data["down_votes"])

	// 方向非法
	w, _ = e.do(t, http.MethodPost, "/api/v1/vote/question", gin.H{
		"id": q.ID, "voter_id": author.ID, "direction": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 帖子不存在
	w, _ = e.do(t, http.MethodPost, "/api/v1/vote/answer", gin.H{
		"id": "missing", "voter_id": author.ID, "direction": "up",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnswerAndNotificationFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a, err := e.users.Create(ctx, "alice", "alice@example.com", "p")
	require.NoError(t, err)
	b, err := e.users.Create(ctx, "bob", "bob@example.com", "p")
	require.NoError(t, err)
	q, err := e.posts.CreateQuestion(ctx, "flow", "", a.ID, nil)
	require.NoError(t, err)
	require.NoError(t, e.subs.Add(ctx, model.EntityKindQuestion, q.ID, b.ID))

	w, _ := e.do(t, http.MethodPost, "/api/v1/answers", gin.H{
		"question_id": q.ID, "author_id": b.ID, "content": "an answer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A 收到通知并标记已读
	inbox, err := e.notifs.ListByRecipient(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	w, resp := e.do(t, http.MethodPut, "/api/v1/notifications/read", gin.H{
		"user_id": a.ID, "notification_id": inbox[0].ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	profile := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), profile["unread_count"])

	// populate 后的问题树里有这条回答
	w, resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/questions/%s", q.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := resp.Data.(map[string]interface{})
	assert.Len(t, snap["answers"], 1)
}

func TestSubscribeEndpoint(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a, err := e.users.Create(ctx, "alice", "alice@example.com", "p")
	require.NoError(t, err)
	b, err := e.users.Create(ctx, "bob", "bob@example.com", "p")
	require.NoError(t, err)
	q, err := e.posts.CreateQuestion(ctx, "sub", "", a.ID, nil)
	require.NoError(t, err)

	w, resp := e.do(t, http.MethodPost, "/api/v1/subscribe", gin.H{
		"id": q.ID, "entity_kind": "question", "user_id": b.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["subscribed"])

	w, _ = e.do(t, http.MethodPost, "/api/v1/subscribe", gin.H{
		"id": q.ID, "entity_kind": "feed", "user_id": b.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
