package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/config"
	_ "github.com/d60-Lab/qa-forum/docs"
	"github.com/d60-Lab/qa-forum/internal/api"
	"github.com/d60-Lab/qa-forum/internal/api/handler"
	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/database"
	"github.com/d60-Lab/qa-forum/pkg/logger"
	"github.com/d60-Lab/qa-forum/pkg/tracing"
)

// @title QA Forum API
// @version 1.0
// @description 问答社区投票/订阅/通知服务
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}
	if cfg.Trace.Enabled {
		shutdown, err := tracing.Init(context.Background(), "qa-forum", cfg.Trace.Endpoint)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		os.Exit(1)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 广播器进程级构造一次，显式注入各组件
	hub := broadcast.NewHub(cfg.Broadcast.SendBuffer)
	qc := cache.NewQuestionCache(rdb, cfg.Redis.CacheTTL)

	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	viewRepo := repository.NewViewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	populator := service.NewPopulator(questionRepo, answerRepo, commentRepo, tagRepo,
		userRepo, voteRepo, subRepo, viewRepo, notifRepo)
	fanout := service.NewNotificationFanout(questionRepo, answerRepo, commentRepo, subRepo, notifRepo)
	votes := service.NewVoteEngine(questionRepo, answerRepo, commentRepo, voteRepo, hub, qc)
	subs := service.NewSubscriptionRegistry(questionRepo, tagRepo, subRepo, populator, hub, qc)
	posts := service.NewPostService(questionRepo, answerRepo, commentRepo, tagRepo, userRepo,
		subRepo, notifRepo, fanout, populator, hub, qc)
	views := service.NewViewRecorder(viewRepo, populator, hub, qc, 0)
	stopViews := views.Start(2)

	h := handler.New(votes, subs, posts, populator, views, hub, qc, cfg.JWT.Secret)
	r := api.NewRouter(cfg, h)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server exited", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	_ = stopViews(ctx)
	_ = rdb.Close()
}
