package service

import (
	"strings"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// MinAccessTokenLength is the shortest credential accepted as a real page or
// channel token. Anything shorter is a truncated or placeholder value.
const MinAccessTokenLength = 50

const (
	defaultTimezone = "UTC"
	scheduledAtISO  = "2006-01-02T15:04:05.000Z07:00"
)

// FormFields are the free-form inputs of the composer.
type FormFields struct {
	Caption          string `json:"caption"`
	Hashtags         string `json:"hashtags"`
	AccountID        string `json:"accountId"`
	PageID           string `json:"pageId"`
	ChannelID        string `json:"channelId"`
	TwitterAccountID string `json:"twitterAccountId"`
	ScheduledDate    string `json:"scheduledDate"`
	ScheduledTime    string `json:"scheduledTime"`
	Timezone         string `json:"timezone"`
}

// PlatformFamily groups platforms that share one connected account. Instagram
// posts go out through the facebook account that owns the page.
func PlatformFamily(platform string) string {
	if platform == models.PlatformInstagram {
		return models.PlatformFacebook
	}
	return platform
}

func IsSupportedPlatform(platform string) bool {
	switch platform {
	case models.PlatformFacebook, models.PlatformInstagram, models.PlatformYoutube, models.PlatformTwitter:
		return true
	}
	return false
}

// BuildScheduledPost validates the composer state for one platform and
// assembles the publish request. Checks run in a fixed order and the first
// failure is returned as a *models.ValidationError. Credentials are never
// defaulted.
func BuildScheduledPost(platform string, account *models.SocialAccount, selected []models.MediaItem, form FormFields) (*transfer.ScheduledPostRequest, error) {
	if !IsSupportedPlatform(platform) {
		return nil, models.NewValidationError(models.KindUnsupportedPlatform, "Platform %q is not supported", platform)
	}

	caption := strings.TrimSpace(form.Caption)
	if caption == "" {
		return nil, models.NewValidationError(models.KindCaptionRequired, "Please enter a caption")
	}
	if strings.TrimSpace(form.ScheduledDate) == "" {
		return nil, models.NewValidationError(models.KindScheduleDateRequired, "Please select a date")
	}
	if strings.TrimSpace(form.ScheduledTime) == "" {
		return nil, models.NewValidationError(models.KindScheduleTimeRequired, "Please select a time")
	}
	scheduledAt, timezone, err := resolveSchedule(form.ScheduledDate, form.ScheduledTime, form.Timezone)
	if err != nil {
		return nil, err
	}

	if form.AccountID == "" {
		return nil, models.NewValidationError(models.KindAccountRequired, "Please select an account")
	}
	if account == nil || account.ID != form.AccountID {
		return nil, models.NewValidationError(models.KindAccountNotFound, "Selected account %s was not found", form.AccountID)
	}
	if PlatformFamily(account.Platform) != PlatformFamily(platform) {
		return nil, models.NewValidationError(models.KindAccountPlatformMismatch, "Selected account %s is a %s account and cannot post to %s", account.ID, account.Platform, platform)
	}

	req := &transfer.ScheduledPostRequest{
		Caption:        composeCaption(caption, form.Hashtags),
		ScheduledAt:    scheduledAt.UTC().Format(scheduledAtISO),
		Timezone:       timezone,
		Status:         models.PostStatusPending,
		Platform:       platform,
		AccountID:      account.ID,
		PlatformUserID: account.PlatformUserID,
		AccessToken:    account.AccessToken,
		ImageURLs:      mediaURLs(selected),
		IsCarousel:     len(selected) > 1,
	}

	switch platform {
	case models.PlatformFacebook, models.PlatformInstagram:
		err = applyPage(req, platform, account, selected, form.PageID)
	case models.PlatformYoutube:
		err = applyChannel(req, account, selected, form.ChannelID)
	case models.PlatformTwitter:
		err = applyTwitter(req, account, selected, form.TwitterAccountID)
	}
	if err != nil {
		return nil, err
	}

	// legacy single-item mirror: imageUrl only ever carries an image
	if len(selected) > 0 {
		switch {
		case selected[0].IsVideo():
			if req.VideoURL == "" {
				req.VideoURL = selected[0].URL
			}
		case platform != models.PlatformYoutube:
			req.ImageURL = selected[0].URL
		}
	}
	return req, nil
}

func applyPage(req *transfer.ScheduledPostRequest, platform string, account *models.SocialAccount, selected []models.MediaItem, pageID string) error {
	if pageID == "" {
		return models.NewValidationError(models.KindPageRequired, "Please select a Facebook page")
	}
	page := account.PageByID(pageID)
	if page == nil {
		return models.NewValidationError(models.KindPageNotFound, "Selected page %s was not found on this account", pageID)
	}
	if page.AccessToken == "" {
		return models.NewValidationError(models.KindPageTokenMissing, "Page access token is missing. Please reconnect the Facebook account")
	}
	if len(page.AccessToken) < MinAccessTokenLength {
		return models.NewValidationError(models.KindPageTokenInvalid, "Page access token looks invalid (%d characters). Please reconnect the Facebook account", len(page.AccessToken))
	}

	var instagramID *string
	if platform == models.PlatformInstagram {
		if page.InstagramBusinessAccount == nil || page.InstagramBusinessAccount.ID == "" {
			return models.NewValidationError(models.KindInstagramBusinessMissing, "Page %s has no Instagram business account connected", page.Name)
		}
		if len(selected) == 0 {
			return models.NewValidationError(models.KindMediaRequired, "Instagram posts need at least one image")
		}
		id := page.InstagramBusinessAccount.ID
		instagramID = &id
	}
	if len(selected) > CarouselMaxImages {
		return models.NewValidationError(models.KindMediaLimitExceeded, "A carousel can hold at most %d images", CarouselMaxImages)
	}

	req.PageID = page.ID
	req.PageName = page.Name
	req.PageAccessToken = page.AccessToken
	req.InstagramID = instagramID
	return nil
}

func applyChannel(req *transfer.ScheduledPostRequest, account *models.SocialAccount, selected []models.MediaItem, channelID string) error {
	if channelID == "" {
		return models.NewValidationError(models.KindChannelRequired, "Please select a YouTube channel")
	}
	channel := account.ChannelByID(channelID)
	if channel == nil {
		return models.NewValidationError(models.KindChannelNotFound, "Selected channel %s was not found on this account", channelID)
	}
	if account.AccessToken == "" {
		return models.NewValidationError(models.KindYoutubeTokenMissing, "YouTube access token is missing. Please reconnect the YouTube account")
	}
	if len(account.AccessToken) < MinAccessTokenLength {
		return models.NewValidationError(models.KindYoutubeTokenInvalid, "YouTube access token looks invalid (%d characters). Please reconnect the YouTube account", len(account.AccessToken))
	}
	if len(selected) == 0 {
		return models.NewValidationError(models.KindMediaRequired, "Please select a video to upload")
	}
	if len(selected) > 1 {
		return models.NewValidationError(models.KindMediaLimitExceeded, "YouTube posts take a single video")
	}

	req.ChannelID = channel.ID
	req.ChannelName = channel.Name
	req.YoutubeAccessToken = account.AccessToken
	req.VideoURL = selected[0].URL
	return nil
}

func applyTwitter(req *transfer.ScheduledPostRequest, account *models.SocialAccount, selected []models.MediaItem, twitterAccountID string) error {
	if account.PlatformUserID == "" {
		return models.NewValidationError(models.KindTwitterAccountUnresolved, "Twitter account %s has no platform user id. Please reconnect it", account.ID)
	}
	if twitterAccountID == "" {
		twitterAccountID = account.PlatformUserID
	}
	if twitterAccountID != account.PlatformUserID {
		return models.NewValidationError(models.KindTwitterAccountMismatch, "Twitter user %s does not belong to account %s", twitterAccountID, account.ID)
	}
	if len(selected) > TwitterMaxMedia {
		return models.NewValidationError(models.KindMediaLimitExceeded, "Twitter allows at most %d media attachments", TwitterMaxMedia)
	}

	req.TwitterAccountID = twitterAccountID
	return nil
}

func resolveSchedule(date, clock, timezone string) (time.Time, string, error) {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, "", models.NewValidationError(models.KindTimezoneInvalid, "Unknown timezone %q", timezone)
	}

	value := strings.TrimSpace(date) + "T" + strings.TrimSpace(clock)
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, timezone, nil
		}
	}
	return time.Time{}, "", models.NewValidationError(models.KindScheduleInvalid, "Invalid schedule %s %s", date, clock)
}

// composeCaption appends the hashtag field to the caption, adding the
// leading # where the user left it out.
func composeCaption(caption, hashtags string) string {
	tags := NormalizeHashtags(hashtags)
	if len(tags) == 0 {
		return caption
	}
	return caption + "\n\n" + strings.Join(tags, " ")
}

func NormalizeHashtags(hashtags string) []string {
	fields := strings.FieldsFunc(hashtags, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t'
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimLeft(f, "#")
		if f == "" {
			continue
		}
		tags = append(tags, "#"+f)
	}
	return tags
}

func mediaURLs(items []models.MediaItem) []string {
	urls := make([]string, 0, len(items))
	for _, m := range items {
		urls = append(urls, m.URL)
	}
	return urls
}
