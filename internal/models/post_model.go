package models

import "time"

// ScheduledPost is the backend's stored record of a scheduled publish.
type ScheduledPost struct {
	ID              string    `json:"_id"`
	Caption         string    `json:"caption"`
	Platform        string    `json:"platform"`
	Platforms       []string  `json:"platforms,omitempty"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	Status          string    `json:"status"` // pending, published, failed
	FacebookPostID  string    `json:"facebookPostId,omitempty"`
	InstagramPostID string    `json:"instagramPostId,omitempty"`
	YoutubeVideoID  string    `json:"youtubeVideoId,omitempty"`
	TwitterPostID   string    `json:"twitterPostId,omitempty"`
	Error           string    `json:"error,omitempty"`
	ImageURLs       []string  `json:"imageUrls,omitempty"`
	IsCarousel      bool      `json:"isCarousel"`
}

const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)
