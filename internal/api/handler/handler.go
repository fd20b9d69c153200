package handler

import (
	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/service"
)

// Handler 聚合全部 HTTP 入口的依赖；BroadcastBus 等均为注入，不走全局量
type Handler struct {
	votes     *service.VoteEngine
	subs      *service.SubscriptionRegistry
	posts     *service.PostService
	populator *service.Populator
	views     *service.ViewRecorder
	hub       *broadcast.Hub
	cache     *cache.QuestionCache
	jwtSecret string
}

func New(
	votes *service.VoteEngine,
	subs *service.SubscriptionRegistry,
	posts *service.PostService,
	populator *service.Populator,
	views *service.ViewRecorder,
	hub *broadcast.Hub,
	qc *cache.QuestionCache,
	jwtSecret string,
) *Handler {
	return &Handler{
		votes:     votes,
		subs:      subs,
		posts:     posts,
		populator: populator,
		views:     views,
		hub:       hub,
		cache:     qc,
		jwtSecret: jwtSecret,
	}
}
