package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/qa-forum/internal/broadcast"
	"github.com/d60-Lab/qa-forum/internal/cache"
	"github.com/d60-Lab/qa-forum/internal/repository"
	"github.com/d60-Lab/qa-forum/pkg/logger"
)

type viewJob struct {
	questionID string
	userID     string
	enqAt      time.Time
}

// ViewRecorder 浏览记录的本地异步执行器：落库后广播 viewsUpdate。
// 队列满直接丢，浏览计数允许丢失。
type ViewRecorder struct {
	viewRepo  repository.ViewRepository
	populator *Populator
	hub       *broadcast.Hub
	cache     *cache.QuestionCache
	ch        chan viewJob
}

func NewViewRecorder(viewRepo repository.ViewRepository, populator *Populator, hub *broadcast.Hub, qc *cache.QuestionCache, queueSize int) *ViewRecorder {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &ViewRecorder{
		viewRepo:  viewRepo,
		populator: populator,
		hub:       hub,
		cache:     qc,
		ch:        make(chan viewJob, queueSize),
	}
}

// Start 启动 worker；返回停止函数，停止时等待队列自然排空一小段时间。
func (r *ViewRecorder) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					r.process(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(r.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

// Enqueue 非阻塞入队；满则丢弃并告警
func (r *ViewRecorder) Enqueue(questionID, userID string) {
	select {
	case r.ch <- viewJob{questionID: questionID, userID: userID, enqAt: time.Now()}:
	default:
		logger.Warn("view recorder queue full, drop view",
			zap.String("question", questionID), zap.String("user", userID))
	}
}

// QueueLen 当前队列长度（采样值）
func (r *ViewRecorder) QueueLen() int { return len(r.ch) }

func (r *ViewRecorder) process(job viewJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.viewRepo.Record(ctx, job.questionID, job.userID); err != nil {
		logger.Warn("record view failed",
			zap.String("question", job.questionID), zap.Error(err))
		return
	}
	r.cache.Invalidate(ctx, job.questionID)
	snap, err := r.populator.Question(ctx, job.questionID)
	if err != nil {
		logger.Warn("populate after view failed",
			zap.String("question", job.questionID), zap.Error(err))
		return
	}
	r.hub.Publish(broadcast.EventViewsUpdate, map[string]interface{}{
		"question": snap,
	})
}
