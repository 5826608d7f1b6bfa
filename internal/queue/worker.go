package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

// ErrStillPending is returned while the backend has not dispatched the post,
// so asynq retries the check later.
var (
	ErrStillPending = errors.New("post is still pending")
	ErrPostNotFound = errors.New("scheduled post not found")
)

func (j *Queue) HandleStatusCheckTask(ctx context.Context, task *asynq.Task) error {
	var payload StatusCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid status check payload: %v: %w", err, asynq.SkipRetry)
	}

	display, err := j.CheckStatus(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if display.State == service.DisplayPending {
		return ErrStillPending
	}
	return nil
}

// CheckStatus presents the stored post and refreshes its cached snapshot.
func (j *Queue) CheckStatus(ctx context.Context, postID string) (*service.PublishDisplay, error) {
	posts, err := j.posts.ListScheduledPosts(ctx)
	if err != nil {
		slog.Info(err.Error(), slog.String("post_id", postID))
		return nil, fmt.Errorf("error listing scheduled posts: %w", err)
	}

	for _, post := range posts {
		if post.ID != postID {
			continue
		}

		display := service.PresentPublishStatus(post)
		if err := j.cache.SetStatus(ctx, display); err != nil {
			slog.Info("unable to cache status snapshot", slog.String("post_id", postID), slog.String("error", err.Error()))
		}
		if j.metrics != nil {
			j.metrics.ObserveStatusCheck(string(display.State))
		}

		slog.Info("status check finished",
			slog.String("post_id", postID),
			slog.String("state", string(display.State)))
		return &display, nil
	}

	slog.Info(ErrPostNotFound.Error(), slog.String("post_id", postID))
	return nil, fmt.Errorf("%w: %w", ErrPostNotFound, asynq.SkipRetry)
}
