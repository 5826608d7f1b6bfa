package models

import "time"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

const ContentStatusUnderReview = "under_review"

type MediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"` // image, video
}

func (m MediaItem) IsVideo() bool {
	return m.Type == MediaTypeVideo
}

// Comment is a positional note left on one media item of one version.
// X and Y are pixel offsets inside the referenced media.
type Comment struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	MediaIndex int       `json:"mediaIndex"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Done       bool      `json:"done"`
	Timestamp  time.Time `json:"timestamp"`
}

type ContentSubmission struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customerId"`
	AssignmentID string      `json:"assignmentId"`
	Title        string      `json:"title"`
	Caption      string      `json:"caption"`
	Hashtags     []string    `json:"hashtags"`
	Notes        string      `json:"notes"`
	Platform     string      `json:"platform"`
	Media        []MediaItem `json:"media"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	Comments     []Comment   `json:"comments"`
}

type Version struct {
	ID            string      `json:"id"`
	VersionNumber int         `json:"versionNumber"`
	Media         []MediaItem `json:"media"`
	Caption       string      `json:"caption"`
	Hashtags      []string    `json:"hashtags"`
	Notes         string      `json:"notes"`
	CreatedAt     time.Time   `json:"createdAt"`
	Status        string      `json:"status"`
	Comments      []Comment   `json:"comments"`
}

// Feedback is a comment tagged with the version it was left on.
type Feedback struct {
	Comment
	VersionNumber int `json:"versionNumber"`
}

type ContentItem struct {
	ID               string     `json:"id"`
	CustomerID       string     `json:"customerId"`
	Title            string     `json:"title"`
	Platform         string     `json:"platform"`
	Status           string     `json:"status"`
	Versions         []Version  `json:"versions"`
	CustomerFeedback []Feedback `json:"customerFeedback"`
}

// LatestVersion returns the most recent version, or nil for an empty item.
func (c *ContentItem) LatestVersion() *Version {
	if len(c.Versions) == 0 {
		return nil
	}
	return &c.Versions[len(c.Versions)-1]
}

func (c *ContentItem) VersionByNumber(n int) *Version {
	if n < 1 || n > len(c.Versions) {
		return nil
	}
	return &c.Versions[n-1]
}

type CustomerContent struct {
	CustomerID string        `json:"customerId"`
	Items      []ContentItem `json:"items"`
}
