package service

import (
	"strings"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

type DisplayState string

const (
	DisplayPending        DisplayState = "pending"
	DisplayPublished      DisplayState = "published"
	DisplayPartialSuccess DisplayState = "partial_success"
	DisplayFailed         DisplayState = "failed"
)

type PlatformResult string

const (
	PlatformSucceeded PlatformResult = "succeeded"
	PlatformFailed    PlatformResult = "failed"
)

const ReconnectHint = "The account's access token is invalid or expired. Reconnect the account and reschedule the post."

// ParameterErrorChecklist lists the usual causes of a graph API parameter error.
var ParameterErrorChecklist = []string{
	"Check that the page access token is still valid",
	"Check that every image URL is publicly reachable",
	"Reconnect the social account",
	"Retry the post without images",
}

var (
	credentialErrorSignatures = []string{
		"invalid oauth access token",
		"error validating access token",
		"access token has expired",
		"session has expired",
	}
	parameterErrorSignatures = []string{
		"invalid parameter",
		"(#100)",
	}
)

type PlatformOutcome struct {
	Platform string         `json:"platform"`
	Result   PlatformResult `json:"result"`
	PostID   string         `json:"postId,omitempty"`
}

type PublishDisplay struct {
	PostID    string            `json:"postId"`
	State     DisplayState      `json:"state"`
	Platforms []PlatformOutcome `json:"platforms,omitempty"`
	Error     string            `json:"error,omitempty"`
	Hint      string            `json:"hint,omitempty"`
	Checklist []string          `json:"checklist,omitempty"`
}

// PresentPublishStatus maps a stored post to what the user sees. A post the
// backend marks published but that carries an error is a partial success:
// every requested platform is reported on its own, succeeded iff the
// backend recorded a post id for it.
func PresentPublishStatus(post models.ScheduledPost) PublishDisplay {
	d := PublishDisplay{PostID: post.ID, Error: post.Error}

	switch post.Status {
	case models.PostStatusPublished:
		if strings.TrimSpace(post.Error) == "" {
			d.State = DisplayPublished
			for _, p := range requestedPlatforms(post) {
				d.Platforms = append(d.Platforms, PlatformOutcome{Platform: p, Result: PlatformSucceeded, PostID: platformPostID(post, p)})
			}
			return d
		}
		d.State = DisplayPartialSuccess
		for _, p := range requestedPlatforms(post) {
			outcome := PlatformOutcome{Platform: p, Result: PlatformFailed}
			if id := platformPostID(post, p); id != "" {
				outcome.Result = PlatformSucceeded
				outcome.PostID = id
			}
			d.Platforms = append(d.Platforms, outcome)
		}
	case models.PostStatusFailed:
		d.State = DisplayFailed
		lower := strings.ToLower(post.Error)
		if containsAny(lower, credentialErrorSignatures) {
			d.Hint = ReconnectHint
		}
		if containsAny(lower, parameterErrorSignatures) {
			d.Checklist = append([]string(nil), ParameterErrorChecklist...)
		}
	default:
		d.State = DisplayPending
	}
	return d
}

// requestedPlatforms falls back to the facebook/instagram pair when the
// record names no target; that pair is the shared page post the backend
// tracks separate post ids for.
func requestedPlatforms(post models.ScheduledPost) []string {
	if len(post.Platforms) > 0 {
		return post.Platforms
	}
	if post.Platform != "" {
		return []string{post.Platform}
	}
	return []string{models.PlatformFacebook, models.PlatformInstagram}
}

func platformPostID(post models.ScheduledPost, platform string) string {
	switch platform {
	case models.PlatformFacebook:
		return post.FacebookPostID
	case models.PlatformInstagram:
		return post.InstagramPostID
	case models.PlatformYoutube:
		return post.YoutubeVideoID
	case models.PlatformTwitter:
		return post.TwitterPostID
	}
	return ""
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
