package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/cache"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

// StatusChecker computes a post's publish display and refreshes its cache.
type StatusChecker interface {
	CheckStatus(ctx context.Context, postID string) (*service.PublishDisplay, error)
}

type PostHandler struct {
	backend service.BackendService
	cache   cache.StatusCache
	checker StatusChecker
}

func NewPostHandler(backend service.BackendService, statusCache cache.StatusCache, checker StatusChecker) *PostHandler {
	return &PostHandler{backend: backend, cache: statusCache, checker: checker}
}

type postWithStatus struct {
	models.ScheduledPost
	Display service.PublishDisplay `json:"display"`
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.backend.ListScheduledPosts(requestContext(c))
	if err != nil {
		return writeError(c, err)
	}

	resp := make([]postWithStatus, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, postWithStatus{ScheduledPost: p, Display: service.PresentPublishStatus(p)})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// PostStatus serves the cached snapshot when there is one and computes it
// live otherwise.
func (h *PostHandler) PostStatus(c *fiber.Ctx) error {
	postID := c.Params("id")
	ctx := requestContext(c)

	cached, err := h.cache.GetStatus(ctx, postID)
	if err != nil {
		slog.Info("status cache unavailable", slog.String("error", err.Error()))
	}
	if cached != nil {
		c.Set("X-Status-Source", "cache")
		return c.Status(fiber.StatusOK).JSON(cached)
	}

	display, err := h.checker.CheckStatus(ctx, postID)
	if err != nil {
		return writeError(c, err)
	}

	c.Set("X-Status-Source", "live")
	return c.Status(fiber.StatusOK).JSON(display)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.backend.DeleteScheduledPost(requestContext(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) TriggerDispatch(c *fiber.Ctx) error {
	if err := h.backend.TriggerDispatch(requestContext(c)); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Dispatch triggered",
	})
}
