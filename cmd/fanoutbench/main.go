package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
)

// 测 NotificationFanout 在不同订阅者规模下的逐收件人投递耗时
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil { panic(err) }
	if err := database.Migrate(db); err != nil { panic(err) }

	SUBS := 1000
	if s := os.Getenv("SUBS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { SUBS = v } }
	REPEAT := 20
	if s := os.Getenv("REPEAT"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { REPEAT = v } }

	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	fanout := service.NewNotificationFanout(questionRepo, answerRepo, commentRepo, subRepo, notifRepo)

	ctx := context.Background()
	// 预创建作者 + SUBS 个订阅者
	users := make([]model.User, SUBS+1)
	for i := range users {
		name := fmt.Sprintf("u%05d", i)
		users[i] = model.User{ID: name, Username: name, Email: name + "@example.com", Password: "p"}
	}
	if err := db.Create(&users).Error; err != nil { panic(err) }
	authorID := users[0].ID
	q := &model.Question{ID: "q0", Title: "bench question", AuthorID: authorID, CreatedAt: time.Now()}
	if err := questionRepo.Create(ctx, q, nil, []string{authorID}); err != nil { panic(err) }
	for i := 1; i <= SUBS; i++ {
		if err := subRepo.Add(ctx, model.EntityKindQuestion, q.ID, users[i].ID); err != nil { panic(err) }
	}
	a := &model.Answer{ID: "a0", QuestionID: q.ID, AuthorID: authorID, Body: "bench answer", CreatedAt: time.Now()}
	if err := answerRepo.Create(ctx, a); err != nil { panic(err) }

	durs := make([]time.Duration, 0, REPEAT)
	for i := 0; i < REPEAT; i++ {
		st := time.Now()
		res, err := fanout.NotifySubscribers(ctx, q.ID, model.EventAnswered, authorID,
			model.VotableRef{Kind: model.PostKindAnswer, ID: a.ID})
		if err != nil { panic(err) }
		if len(res.Delivered) != SUBS { panic(fmt.Sprintf("delivered %d, want %d", len(res.Delivered), SUBS)) }
		durs = append(durs, time.Since(st))
	}

	pct := func(vs []time.Duration, p float64) time.Duration {
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(float64(len(xs)) * p)
		if k >= len(xs) { k = len(xs) - 1 }
		return xs[k]
	}
	var sum time.Duration
	for _, d := range durs { sum += d }
	fmt.Printf("SUBS=%d REPEAT=%d\n", SUBS, REPEAT)
	fmt.Printf("Fanout: avg=%v p95=%v p99=%v\n", sum/time.Duration(len(durs)), pct(durs, 0.95), pct(durs, 0.99))
}
