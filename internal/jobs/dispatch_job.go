package job

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher asks the backend to publish every due post.
type Dispatcher interface {
	TriggerDispatch(ctx context.Context) error
}

type DispatchJob struct {
	dispatcher Dispatcher
	timeout    time.Duration

	mu      sync.Mutex
	running bool
}

func NewDispatchJob(dispatcher Dispatcher, timeout time.Duration) *DispatchJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DispatchJob{dispatcher: dispatcher, timeout: timeout}
}

// TriggerDispatch is the cron entry point. Overlapping ticks are skipped.
func (j *DispatchJob) TriggerDispatch() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		slog.Info("dispatch trigger still running, skipping tick")
		return
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.dispatcher.TriggerDispatch(ctx); err != nil {
		slog.Info("unable to trigger dispatch", slog.String("error", err.Error()))
		return
	}
	slog.Info("dispatch triggered")
}
