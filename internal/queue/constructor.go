package queue

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/cache"
	"github.com/maheshrc27/postflow-studio/internal/metrics"
	"github.com/maheshrc27/postflow-studio/internal/models"
)

// PostLister is the slice of the backend the status worker reads.
type PostLister interface {
	ListScheduledPosts(ctx context.Context) ([]models.ScheduledPost, error)
}

type Queue struct {
	posts   PostLister
	cache   cache.StatusCache
	metrics *metrics.Metrics
}

func NewQueue(posts PostLister, statusCache cache.StatusCache, m *metrics.Metrics) *Queue {
	return &Queue{
		posts:   posts,
		cache:   statusCache,
		metrics: m,
	}
}

const TaskTypeStatusCheck = "post:status_check"

type StatusCheckPayload struct {
	PostID   string `json:"post_id"`
	Platform string `json:"platform"`
}
