package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

const defaultCommentContainerWidth = 800

type ContentHandler struct {
	backend service.BackendService
}

func NewContentHandler(backend service.BackendService) *ContentHandler {
	return &ContentHandler{backend: backend}
}

// ListContent returns the caller's view of the aggregated content tree.
func (h *ContentHandler) ListContent(c *fiber.Ctx) error {
	content, err := h.loadContent(c)
	if err != nil {
		return writeError(c, err)
	}

	if customerID := c.Query("customerId"); customerID != "" {
		filtered := content[:0]
		for _, cc := range content {
			if cc.CustomerID == customerID {
				filtered = append(filtered, cc)
			}
		}
		content = filtered
	}

	return c.Status(fiber.StatusOK).JSON(content)
}

func (h *ContentHandler) GetContentItem(c *fiber.Ctx) error {
	item, err := h.findItem(c)
	if err != nil {
		return writeError(c, err)
	}
	if !capabilityFor(c, item).CanView {
		return writeError(c, errForbidden)
	}
	return c.Status(fiber.StatusOK).JSON(item)
}

// ListComments returns the comments of one version's media item, each placed
// on the side of the image away from its pin.
func (h *ContentHandler) ListComments(c *fiber.Ctx) error {
	item, err := h.findItem(c)
	if err != nil {
		return writeError(c, err)
	}
	if !capabilityFor(c, item).CanView {
		return writeError(c, errForbidden)
	}

	version := item.LatestVersion()
	if n := c.QueryInt("version", 0); n > 0 {
		version = item.VersionByNumber(n)
	}
	if version == nil {
		return writeError(c, service.ErrNoVersion)
	}

	mediaIndex := c.QueryInt("mediaIndex", 0)
	width := c.QueryFloat("width", defaultCommentContainerWidth)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"versionNumber": version.VersionNumber,
		"mediaIndex":    mediaIndex,
		"comments":      service.AnchorComments(version.Comments, mediaIndex, width),
	})
}

// UpdateStatus approves or rejects one version of a content item.
func (h *ContentHandler) UpdateStatus(c *fiber.Ctx) error {
	var body transfer.SubmissionStatusUpdate
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	item, err := h.findItem(c)
	if err != nil {
		return writeError(c, err)
	}
	if !capabilityFor(c, item).CanReview {
		return writeError(c, errForbidden)
	}

	if !hasVersion(item, body.VersionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("Version %s does not belong to this content", body.VersionID),
		})
	}

	if err := h.backend.UpdateSubmissionStatus(requestContext(c), body.VersionID, body); err != nil {
		return writeError(c, err)
	}

	slog.Info("submission status updated",
		slog.String("content_id", item.ID),
		slog.String("version_id", body.VersionID),
		slog.String("status", body.Status))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Status updated",
	})
}

func (h *ContentHandler) loadContent(c *fiber.Ctx) ([]models.CustomerContent, error) {
	submissions, err := h.backend.ListSubmissions(requestContext(c))
	if err != nil {
		return nil, err
	}
	return service.VisibleContent(GetUser(c), service.AggregateSubmissions(submissions)), nil
}

func (h *ContentHandler) findItem(c *fiber.Ctx) (*models.ContentItem, error) {
	content, err := h.loadContent(c)
	if err != nil {
		return nil, err
	}
	return service.FindContentItem(content, c.Params("customerId"), c.Params("contentId"))
}

func hasVersion(item *models.ContentItem, versionID string) bool {
	for _, v := range item.Versions {
		if v.ID == versionID {
			return true
		}
	}
	return false
}

func capabilityFor(c *fiber.Ctx, item *models.ContentItem) service.Capability {
	user := GetUser(c)
	return service.Classify(user, service.ItemResource(user, item))
}
