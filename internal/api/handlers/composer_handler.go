package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/metrics"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/queue"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type ComposerHandler struct {
	backend         service.BackendService
	uploader        service.MediaUploader
	sessions        *service.ComposerRegistry
	enqueuer        queue.Enqueuer
	attempts        repository.SubmitAttemptRepository
	metrics         *metrics.Metrics
	statusGrace     time.Duration
	defaultPlatform string
}

// NewComposerHandler wires the composer endpoints. enqueuer and attempts may
// be nil when redis or postgres are not configured.
func NewComposerHandler(
	backend service.BackendService,
	uploader service.MediaUploader,
	sessions *service.ComposerRegistry,
	enqueuer queue.Enqueuer,
	attempts repository.SubmitAttemptRepository,
	m *metrics.Metrics,
	statusGrace time.Duration,
	defaultPlatform string) *ComposerHandler {
	return &ComposerHandler{
		backend:         backend,
		uploader:        uploader,
		sessions:        sessions,
		enqueuer:        enqueuer,
		attempts:        attempts,
		metrics:         m,
		statusGrace:     statusGrace,
		defaultPlatform: defaultPlatform,
	}
}

// OpenComposer starts scheduling a content item's latest version.
func (h *ComposerHandler) OpenComposer(c *fiber.Ctx) error {
	var body transfer.OpenComposer
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	user := GetUser(c)
	if !service.Classify(user, service.Resource{CustomerID: body.CustomerID}).CanSchedule {
		return writeError(c, errForbidden)
	}

	ctx := requestContext(c)
	submissions, err := h.backend.ListSubmissions(ctx)
	if err != nil {
		return writeError(c, err)
	}
	item, err := service.FindContentItem(service.AggregateSubmissions(submissions), body.CustomerID, body.AssignmentID)
	if err != nil {
		return writeError(c, err)
	}

	links, err := h.backend.ListCustomerSocialLinks(ctx)
	if err != nil {
		return writeError(c, err)
	}
	var accounts []models.SocialAccount
	for _, link := range links {
		if link.CustomerID == body.CustomerID {
			accounts = append(accounts, link.SocialAccounts...)
		}
	}

	scheduler := service.NewScheduler(h.backend)
	if err := scheduler.Open(*item, accounts, h.defaultPlatform); err != nil {
		return writeError(c, err)
	}

	session, err := h.sessions.Add(user.ID, body.CustomerID, body.AssignmentID, scheduler)
	if err != nil {
		scheduler.Close()
		return writeError(c, err)
	}
	h.reportOpenComposers()

	return c.Status(fiber.StatusCreated).JSON(composerResponse(session))
}

func (h *ComposerHandler) GetComposer(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(composerResponse(session))
}

// UpdateComposer patches the form. A platform change is applied first so the
// platform-specific ids in the same request survive it.
func (h *ComposerHandler) UpdateComposer(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}

	var body transfer.ComposerUpdate
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	if body.Platform != nil {
		if err := session.Scheduler.SetPlatform(*body.Platform); err != nil {
			return writeError(c, err)
		}
	}

	err = session.Scheduler.EditForm(func(f *service.FormFields) {
		setIfPresent(&f.Caption, body.Caption)
		setIfPresent(&f.Hashtags, body.Hashtags)
		setIfPresent(&f.AccountID, body.AccountID)
		setIfPresent(&f.PageID, body.PageID)
		setIfPresent(&f.ChannelID, body.ChannelID)
		setIfPresent(&f.TwitterAccountID, body.TwitterAccountID)
		setIfPresent(&f.ScheduledDate, body.ScheduledDate)
		setIfPresent(&f.ScheduledTime, body.ScheduledTime)
		setIfPresent(&f.Timezone, body.Timezone)
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(composerResponse(session))
}

func (h *ComposerHandler) ToggleMedia(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}

	var body transfer.MediaToggle
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	if err := session.Scheduler.ToggleMedia(body.URL); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(composerResponse(session))
}

func (h *ComposerHandler) SelectAllMedia(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := session.Scheduler.SelectAllMedia(); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(composerResponse(session))
}

func (h *ComposerHandler) ClearMedia(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := session.Scheduler.ClearMedia(); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(composerResponse(session))
}

// UploadMedia stores a multipart "file" and makes it available for selection.
func (h *ComposerHandler) UploadMedia(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}
	if fileHeader.Size > service.MaxUploadBytes {
		return writeError(c, service.ErrUploadTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadBytes+1))
	if err != nil {
		return writeError(c, err)
	}

	item, err := h.uploader.Upload(requestContext(c), fileHeader.Filename, data)
	h.metrics.ObserveUpload(err)
	if err != nil {
		return writeError(c, err)
	}

	if err := session.Scheduler.AddMedia(item); err != nil {
		return writeError(c, err)
	}

	resp := composerResponse(session)
	resp["uploaded"] = item
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// SubmitComposer validates and sends the post. A successful submit schedules
// a publish status check for shortly after the post's scheduled time.
func (h *ComposerHandler) SubmitComposer(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}

	before := session.Scheduler.View()
	ctx := requestContext(c)

	result, err := session.Scheduler.Submit(ctx)
	h.recordAttempt(ctx, session, before, result, err)

	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			h.metrics.ObserveValidationFailure(string(vErr.Kind))
		} else if !errors.Is(err, service.ErrSubmitInProgress) && !errors.Is(err, service.ErrComposerClosed) {
			h.metrics.ObserveSubmit(before.Platform, err)
		}
		return writeError(c, err)
	}
	h.metrics.ObserveSubmit(result.Request.Platform, nil)

	statusCheck := h.scheduleStatusCheck(result)

	resp := composerResponse(session)
	resp["postId"] = result.PostID
	resp["statusCheckScheduled"] = statusCheck
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ComposerHandler) CloseComposer(c *fiber.Ctx) error {
	if err := h.sessions.Remove(c.Params("id"), GetUser(c).ID); err != nil {
		return writeError(c, err)
	}
	h.reportOpenComposers()
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAttempts returns the caller's most recent submit attempts.
func (h *ComposerHandler) ListAttempts(c *fiber.Ctx) error {
	if h.attempts == nil {
		return c.Status(fiber.StatusOK).JSON([]*models.SubmitAttempt{})
	}

	attempts, err := h.attempts.ListByUserID(c.Context(), GetUser(c).ID, c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	if attempts == nil {
		attempts = []*models.SubmitAttempt{}
	}
	return c.Status(fiber.StatusOK).JSON(attempts)
}

func (h *ComposerHandler) session(c *fiber.Ctx) (*service.ComposerSession, error) {
	return h.sessions.Get(c.Params("id"), GetUser(c).ID)
}

func (h *ComposerHandler) recordAttempt(ctx context.Context, session *service.ComposerSession, before service.ComposerView, result *service.SubmitResult, submitErr error) {
	if h.attempts == nil || errors.Is(submitErr, service.ErrSubmitInProgress) {
		return
	}

	attempt := models.SubmitAttempt{
		SessionID:    session.ID,
		UserID:       session.OwnerID,
		AssignmentID: session.AssignmentID,
		Platform:     before.Platform,
		ImageCount:   len(before.Selected),
	}
	if result != nil {
		attempt.PostID = result.PostID
	}
	if submitErr != nil {
		attempt.ErrorMessage = submitErr.Error()
	}

	if _, err := h.attempts.Create(ctx, &attempt); err != nil {
		slog.Info("unable to record submit attempt", slog.String("error", err.Error()))
	}
}

func (h *ComposerHandler) scheduleStatusCheck(result *service.SubmitResult) bool {
	if h.enqueuer == nil || result.PostID == "" {
		return false
	}

	delay := h.statusGrace
	if scheduledAt, err := time.Parse(time.RFC3339, result.Request.ScheduledAt); err == nil {
		delay += time.Until(scheduledAt)
	}

	err := queue.EnqueueStatusCheck(h.enqueuer, queue.StatusCheckPayload{
		PostID:   result.PostID,
		Platform: result.Request.Platform,
	}, delay)
	return err == nil
}

func (h *ComposerHandler) reportOpenComposers() {
	h.metrics.OpenComposers.Set(float64(h.sessions.Len()))
}

func composerResponse(session *service.ComposerSession) fiber.Map {
	view := session.Scheduler.View()
	return fiber.Map{
		"sessionId": session.ID,
		"composer":  view,
		"accounts":  summarizeAccounts(view.Accounts),
	}
}

func summarizeAccounts(accounts []models.SocialAccount) []transfer.AccountSummary {
	summaries := make([]transfer.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		s := transfer.AccountSummary{ID: a.ID, Platform: a.Platform, Name: a.Name}
		for _, p := range a.Pages {
			s.Pages = append(s.Pages, transfer.PageSummary{
				ID:                   p.ID,
				Name:                 p.Name,
				HasInstagramBusiness: p.InstagramBusinessAccount != nil && p.InstagramBusinessAccount.ID != "",
			})
		}
		for _, ch := range a.Channels {
			s.Channels = append(s.Channels, transfer.ChannelSummary{
				ID:              ch.ID,
				Name:            ch.Name,
				SubscriberCount: ch.SubscriberCount,
			})
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
