package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/qa-forum/config"
	"github.com/d60-Lab/qa-forum/internal/api/handler"
	"github.com/d60-Lab/qa-forum/internal/api/middleware"
)

// NewRouter 装配全部路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	handler.RegisterValidations()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware("qa-forum"))
	}

	r.GET("/ws", h.AttachWS)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/questions/:id", h.GetQuestion)
		v1.GET("/users/:id", h.GetUser)
		v1.GET("/tags/:name", h.GetTag)

		mutate := v1.Group("")
		mutate.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		{
			mutate.POST("/vote/:kind", h.Vote)
			mutate.POST("/subscribe", h.Subscribe)
			mutate.POST("/questions", h.CreateQuestion)
			mutate.POST("/questions/:id/view", h.RecordView)
			mutate.POST("/answers", h.PostAnswer)
			mutate.POST("/comments", h.PostComment)
			mutate.PUT("/notifications/read", h.MarkNotificationRead)
		}
	}
	return r
}
