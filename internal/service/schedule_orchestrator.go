package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type ComposerState string

const (
	StateIdle       ComposerState = "idle"
	StateComposing  ComposerState = "composing"
	StateValidating ComposerState = "validating"
	StateSubmitting ComposerState = "submitting"
	StateSucceeded  ComposerState = "succeeded"
	StateFailed     ComposerState = "failed"
)

var (
	ErrSubmitInProgress = errors.New("a submit is already in progress")
	ErrComposerClosed   = errors.New("composer is closed")
	ErrNoVersion        = errors.New("content item has no versions")
)

// PostCreator is the slice of the backend the orchestrator submits through.
type PostCreator interface {
	CreateScheduledPost(ctx context.Context, req *transfer.ScheduledPostRequest) (string, error)
}

type SubmitResult struct {
	PostID  string
	Request *transfer.ScheduledPostRequest
}

// ComposerView is a point-in-time copy of the composer for rendering.
type ComposerView struct {
	State      ComposerState          `json:"state"`
	ContentID  string                 `json:"contentId,omitempty"`
	CustomerID string                 `json:"customerId,omitempty"`
	Platform   string                 `json:"platform"`
	Form       FormFields             `json:"form"`
	Accounts   []models.SocialAccount `json:"-"`
	Available  []models.MediaItem     `json:"availableImages"`
	Selected   []models.MediaItem     `json:"selectedImages"`
	MediaCap   int                    `json:"mediaCap"`
	IsCarousel bool                   `json:"isCarousel"`
	Submitting bool                   `json:"submitting"`
	Error      string                 `json:"error,omitempty"`
	ErrorKind  string                 `json:"errorKind,omitempty"`
	LastPostID string                 `json:"lastPostId,omitempty"`
}

// Scheduler owns the state machine of one scheduling composer:
// idle -> composing -> validating -> submitting -> succeeded | failed.
// Exactly one submit may be in flight; a second one is rejected. Results
// that arrive after the composer was closed are dropped.
type Scheduler struct {
	mu sync.Mutex

	backend PostCreator

	state      ComposerState
	generation uint64
	cancel     context.CancelFunc
	submitting bool

	item     *models.ContentItem
	accounts []models.SocialAccount
	platform string
	form     FormFields
	selector *CarouselSelector

	lastErr    error
	lastPostID string
}

func NewScheduler(backend PostCreator) *Scheduler {
	return &Scheduler{backend: backend, state: StateIdle}
}

// Open starts composing for a content item, seeding the form from its latest
// version: hashtags are split out of the caption and the first media item is
// pre-selected.
func (s *Scheduler) Open(item models.ContentItem, accounts []models.SocialAccount, defaultPlatform string) error {
	latest := item.LatestVersion()
	if latest == nil {
		return ErrNoVersion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()

	platform := item.Platform
	if !IsSupportedPlatform(platform) {
		platform = defaultPlatform
	}

	hashtags := latest.Hashtags
	if len(hashtags) == 0 {
		hashtags = ExtractHashtags(latest.Caption)
	}

	s.item = &item
	s.accounts = accounts
	s.lastPostID = ""
	s.platform = platform
	s.form = FormFields{
		Caption:  StripHashtags(latest.Caption),
		Hashtags: strings.Join(hashtags, " "),
		Timezone: defaultTimezone,
	}
	s.selector = NewCarouselSelector(platform, latest.Media)
	if available := s.selector.Available(); len(available) > 0 {
		_ = s.selector.Toggle(available[0])
	}
	s.state = StateComposing

	slog.Info("composer opened",
		slog.String("content_id", item.ID),
		slog.String("platform", platform),
		slog.Int("media", len(latest.Media)))
	return nil
}

// Close discards the form. An in-flight submit is cancelled and its result
// will not be applied.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Scheduler) resetLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StateIdle
	s.submitting = false
	s.item = nil
	s.accounts = nil
	s.platform = ""
	s.form = FormFields{}
	s.selector = nil
	s.lastErr = nil
}

// editableLocked reports whether the form can change. Editing after a failure
// returns the composer to composing.
func (s *Scheduler) editableLocked() error {
	switch s.state {
	case StateComposing, StateFailed:
		if s.submitting {
			return ErrSubmitInProgress
		}
		s.state = StateComposing
		return nil
	case StateValidating, StateSubmitting:
		return ErrSubmitInProgress
	default:
		return ErrComposerClosed
	}
}

func (s *Scheduler) SetPlatform(platform string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	if !IsSupportedPlatform(platform) {
		return models.NewValidationError(models.KindUnsupportedPlatform, "Platform %q is not supported", platform)
	}
	if platform != s.platform {
		s.form.PageID = ""
		s.form.ChannelID = ""
		s.form.TwitterAccountID = ""
	}
	// an account only carries over between platforms it can post to
	if PlatformFamily(platform) != PlatformFamily(s.platform) {
		s.form.AccountID = ""
	}
	s.platform = platform
	s.selector.SetPlatform(platform)
	return nil
}

// EditForm applies fn to the form fields under the composer lock.
func (s *Scheduler) EditForm(fn func(*FormFields)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	fn(&s.form)
	return nil
}

func (s *Scheduler) ToggleMedia(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.selector.Toggle(models.MediaItem{URL: url})
}

func (s *Scheduler) SelectAllMedia() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.selector.SelectAll()
	return nil
}

func (s *Scheduler) ClearMedia() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.selector.ClearAll()
	return nil
}

// AddMedia makes an uploaded item available to the selection.
func (s *Scheduler) AddMedia(item models.MediaItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.selector.AddAvailable(item)
	return nil
}

// Submit validates the form and issues exactly one create request. A
// validation failure leaves the composer in composing without any network
// call; a backend failure moves it to failed.
func (s *Scheduler) Submit(ctx context.Context) (*SubmitResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if s.state != StateComposing && s.state != StateFailed {
		s.mu.Unlock()
		return nil, ErrComposerClosed
	}

	s.state = StateValidating
	req, err := BuildScheduledPost(s.platform, s.findAccountLocked(s.form.AccountID), s.selector.Selected(), s.form)
	if err != nil {
		platform := s.platform
		s.state = StateComposing
		s.lastErr = err
		s.mu.Unlock()
		slog.Info(err.Error(), slog.String("platform", platform))
		return nil, err
	}

	s.state = StateSubmitting
	s.submitting = true
	generation := s.generation
	submitCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	postID, err := s.backend.CreateScheduledPost(submitCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()

	if generation != s.generation {
		slog.Info("discarding submit result for closed composer", slog.String("platform", req.Platform))
		return nil, ErrComposerClosed
	}
	s.cancel = nil
	s.submitting = false

	if err != nil {
		var netErr *models.NetworkError
		if !errors.As(err, &netErr) {
			err = &models.NetworkError{Message: models.GenericNetworkFailure, Err: err}
		}
		s.state = StateFailed
		s.lastErr = err
		slog.Info("scheduled post submit failed",
			slog.String("platform", req.Platform),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Info("scheduled post created",
		slog.String("post_id", postID),
		slog.String("platform", req.Platform),
		slog.Bool("carousel", req.IsCarousel))

	s.resetLocked()
	s.state = StateSucceeded
	s.lastPostID = postID
	return &SubmitResult{PostID: postID, Request: req}, nil
}

func (s *Scheduler) findAccountLocked(id string) *models.SocialAccount {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *Scheduler) State() ComposerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) View() ComposerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := ComposerView{
		State:      s.state,
		Platform:   s.platform,
		Form:       s.form,
		Accounts:   s.accounts,
		Submitting: s.submitting,
		LastPostID: s.lastPostID,
	}
	if s.item != nil {
		v.ContentID = s.item.ID
		v.CustomerID = s.item.CustomerID
	}
	if s.selector != nil {
		v.Available = s.selector.Available()
		v.Selected = s.selector.Selected()
		v.MediaCap = s.selector.Cap()
		v.IsCarousel = s.selector.IsCarousel()
	}
	if s.lastErr != nil {
		v.Error = s.lastErr.Error()
		var vErr *models.ValidationError
		if errors.As(s.lastErr, &vErr) {
			v.ErrorKind = string(vErr.Kind)
		}
	}
	return v
}
