package queue

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const statusCheckMaxRetry = 5

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func EnqueueStatusCheck(client Enqueuer, payload StatusCheckPayload, delay time.Duration) error {
	if payload.PostID == "" {
		return errors.New("status check needs a post id")
	}
	if delay < 0 {
		delay = 0
	}

	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeStatusCheck, taskPayload)

	_, err = client.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(statusCheckMaxRetry))
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("status check scheduled",
		slog.String("post_id", payload.PostID),
		slog.Duration("delay", delay))
	return nil
}
