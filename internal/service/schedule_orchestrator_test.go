package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPostCreator struct {
	mu       sync.Mutex
	calls    int
	requests []*transfer.ScheduledPostRequest
	create   func(ctx context.Context, req *transfer.ScheduledPostRequest) (string, error)
}

func (s *stubPostCreator) CreateScheduledPost(ctx context.Context, req *transfer.ScheduledPostRequest) (string, error) {
	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, req)
	create := s.create
	s.mu.Unlock()
	if create == nil {
		return "post-1", nil
	}
	return create(ctx, req)
}

func (s *stubPostCreator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func composerItem(media []models.MediaItem) models.ContentItem {
	return models.ContentItem{
		ID:         "a1",
		CustomerID: "c1",
		Platform:   models.PlatformFacebook,
		Versions: []models.Version{
			{ID: "s1", VersionNumber: 1, Caption: "old"},
			{ID: "s2", VersionNumber: 2, Caption: "Fresh look #spring #sale", Media: media},
		},
	}
}

func openScheduler(t *testing.T, backend PostCreator, media []models.MediaItem) *Scheduler {
	t.Helper()
	s := NewScheduler(backend)
	accounts := []models.SocialAccount{*facebookAccount(), *youtubeAccount(), *twitterAccount()}
	require.NoError(t, s.Open(composerItem(media), accounts, models.PlatformFacebook))
	return s
}

func fillFacebook(t *testing.T, s *Scheduler) {
	t.Helper()
	require.NoError(t, s.EditForm(func(f *FormFields) {
		f.AccountID = "acc-fb"
		f.PageID = "page-1"
		f.ScheduledDate = "2030-01-01"
		f.ScheduledTime = "10:00"
	}))
}

func TestScheduler_OpenSeedsFromLatestVersion(t *testing.T) {
	s := openScheduler(t, &stubPostCreator{}, images(3))

	v := s.View()
	assert.Equal(t, StateComposing, v.State)
	assert.Equal(t, "a1", v.ContentID)
	assert.Equal(t, models.PlatformFacebook, v.Platform)
	assert.Equal(t, "Fresh look", v.Form.Caption)
	assert.Equal(t, "#spring #sale", v.Form.Hashtags)
	assert.Equal(t, "UTC", v.Form.Timezone)
	assert.Equal(t, images(3)[:1], v.Selected)
	assert.Len(t, v.Available, 3)
	assert.Equal(t, CarouselMaxImages, v.MediaCap)
}

func TestScheduler_OpenWithoutVersions(t *testing.T) {
	s := NewScheduler(&stubPostCreator{})
	assert.ErrorIs(t, s.Open(models.ContentItem{ID: "x"}, nil, models.PlatformFacebook), ErrNoVersion)
	assert.Equal(t, StateIdle, s.State())
}

func TestScheduler_InstagramSelectAll(t *testing.T) {
	s := openScheduler(t, &stubPostCreator{}, images(3))

	require.NoError(t, s.SetPlatform(models.PlatformInstagram))
	require.NoError(t, s.SelectAllMedia())

	v := s.View()
	assert.Equal(t, images(3), v.Selected)
	assert.True(t, v.IsCarousel)
}

func TestScheduler_YoutubeWithoutChannelMakesNoCall(t *testing.T) {
	backend := &stubPostCreator{}
	s := openScheduler(t, backend, images(1))
	require.NoError(t, s.SetPlatform(models.PlatformYoutube))
	require.NoError(t, s.EditForm(func(f *FormFields) {
		f.AccountID = "acc-yt"
		f.ScheduledDate = "2030-01-01"
		f.ScheduledTime = "10:00"
	}))

	res, err := s.Submit(context.Background())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, models.ErrChannelRequired)
	assert.Contains(t, err.Error(), "select a YouTube channel")
	assert.Equal(t, 0, backend.Calls())
	assert.Equal(t, StateComposing, s.State())
	assert.Equal(t, string(models.KindChannelRequired), s.View().ErrorKind)
}

func TestScheduler_SubmitSuccessResets(t *testing.T) {
	backend := &stubPostCreator{}
	s := openScheduler(t, backend, images(2))
	fillFacebook(t, s)

	res, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "post-1", res.PostID)
	assert.Equal(t, "page-1", res.Request.PageID)
	assert.Equal(t, 1, backend.Calls())

	v := s.View()
	assert.Equal(t, StateSucceeded, v.State)
	assert.Equal(t, "post-1", v.LastPostID)
	assert.Empty(t, v.Form.Caption)
	assert.Empty(t, v.Selected)

	assert.ErrorIs(t, s.EditForm(func(*FormFields) {}), ErrComposerClosed)
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrComposerClosed)
}

func TestScheduler_SubmitFailureKeepsForm(t *testing.T) {
	backend := &stubPostCreator{create: func(context.Context, *transfer.ScheduledPostRequest) (string, error) {
		return "", &models.NetworkError{StatusCode: 400, Message: "Page is not published"}
	}}
	s := openScheduler(t, backend, images(1))
	fillFacebook(t, s)

	_, err := s.Submit(context.Background())

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "Page is not published", netErr.Message)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "Fresh look", s.View().Form.Caption)

	require.NoError(t, s.EditForm(func(f *FormFields) { f.Caption = "Retry" }))
	assert.Equal(t, StateComposing, s.State())
}

func TestScheduler_TransportFailureUsesGenericMessage(t *testing.T) {
	backend := &stubPostCreator{create: func(context.Context, *transfer.ScheduledPostRequest) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}}
	s := openScheduler(t, backend, images(1))
	fillFacebook(t, s)

	_, err := s.Submit(context.Background())

	var netErr *models.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, models.GenericNetworkFailure, netErr.Message)
	assert.Equal(t, StateFailed, s.State())

	// the failed composer accepts a resubmit
	backend.create = nil
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "post-1", res.PostID)
}

func TestScheduler_SecondSubmitRejectedWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &stubPostCreator{create: func(context.Context, *transfer.ScheduledPostRequest) (string, error) {
		close(entered)
		<-release
		return "post-1", nil
	}}
	s := openScheduler(t, backend, images(1))
	fillFacebook(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	<-entered
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, s.EditForm(func(*FormFields) {}), ErrSubmitInProgress)
	assert.True(t, s.View().Submitting)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, backend.Calls())
}

func TestScheduler_CloseDiscardsLateResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var sawCancel bool
	backend := &stubPostCreator{create: func(ctx context.Context, _ *transfer.ScheduledPostRequest) (string, error) {
		close(entered)
		<-release
		sawCancel = ctx.Err() != nil
		return "late-post", nil
	}}
	s := openScheduler(t, backend, images(1))
	fillFacebook(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	<-entered
	s.Close()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrComposerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not return")
	}
	assert.True(t, sawCancel)

	v := s.View()
	assert.Equal(t, StateIdle, v.State)
	assert.Empty(t, v.LastPostID)
}

func TestScheduler_SetPlatformClearsTargets(t *testing.T) {
	s := openScheduler(t, &stubPostCreator{}, images(5))
	fillFacebook(t, s)
	require.NoError(t, s.SelectAllMedia())

	require.NoError(t, s.SetPlatform(models.PlatformTwitter))

	v := s.View()
	assert.Empty(t, v.Form.PageID)
	assert.Empty(t, v.Form.AccountID)
	assert.Equal(t, "Fresh look", v.Form.Caption)
	assert.Len(t, v.Selected, TwitterMaxMedia)

	err := s.SetPlatform("myspace")
	assert.ErrorIs(t, err, models.ErrUnsupportedPlatform)
}

func TestScheduler_SetPlatformKeepsAccountWithinFamily(t *testing.T) {
	s := openScheduler(t, &stubPostCreator{}, images(2))
	fillFacebook(t, s)

	require.NoError(t, s.SetPlatform(models.PlatformInstagram))

	v := s.View()
	assert.Equal(t, "acc-fb", v.Form.AccountID)
	assert.Empty(t, v.Form.PageID)
}

func TestScheduler_SwitchPlatformNeverReusesForeignCredentials(t *testing.T) {
	backend := &stubPostCreator{}
	s := openScheduler(t, backend, images(1))
	fillFacebook(t, s)
	require.NoError(t, s.SetPlatform(models.PlatformTwitter))

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, models.ErrAccountRequired)

	// picking the facebook account again for a twitter post is still refused
	require.NoError(t, s.EditForm(func(f *FormFields) { f.AccountID = "acc-fb" }))
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, models.ErrAccountPlatformMismatch)
	assert.Equal(t, 0, backend.Calls())

	require.NoError(t, s.EditForm(func(f *FormFields) { f.AccountID = "acc-tw" }))
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acc-tw", res.Request.AccountID)
	assert.Equal(t, "tw-42", res.Request.TwitterAccountID)
	assert.Equal(t, "tok", res.Request.AccessToken)
	assert.Equal(t, 1, backend.Calls())
}

func TestScheduler_AddMediaAndToggle(t *testing.T) {
	s := openScheduler(t, &stubPostCreator{}, images(1))

	require.NoError(t, s.AddMedia(models.MediaItem{URL: "https://x/upload.png", Type: models.MediaTypeImage}))
	require.NoError(t, s.ToggleMedia("https://x/upload.png"))
	assert.Len(t, s.View().Selected, 2)

	require.NoError(t, s.ClearMedia())
	assert.Empty(t, s.View().Selected)

	assert.ErrorIs(t, s.ToggleMedia("https://x/unknown.png"), ErrMediaNotAvailable)
}

func TestScheduler_ClosedComposerRejectsEdits(t *testing.T) {
	s := NewScheduler(&stubPostCreator{})
	assert.ErrorIs(t, s.SetPlatform(models.PlatformFacebook), ErrComposerClosed)
	assert.ErrorIs(t, s.ToggleMedia("x"), ErrComposerClosed)
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrComposerClosed)
}
