package transfer

// ScheduledPostRequest is the body of POST /api/scheduled-posts.
type ScheduledPostRequest struct {
	Caption        string   `json:"caption"`
	ScheduledAt    string   `json:"scheduledAt"`
	Timezone       string   `json:"timezone"`
	Status         string   `json:"status"`
	Platform       string   `json:"platform"`
	AccountID      string   `json:"accountId"`
	PlatformUserID string   `json:"platformUserId"`
	AccessToken    string   `json:"accessToken"`
	ImageURLs      []string `json:"imageUrls"`
	IsCarousel     bool     `json:"isCarousel"`

	// facebook / instagram
	PageID          string  `json:"pageId,omitempty"`
	PageName        string  `json:"pageName,omitempty"`
	PageAccessToken string  `json:"pageAccessToken,omitempty"`
	InstagramID     *string `json:"instagramId,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`

	// youtube
	ChannelID          string `json:"channelId,omitempty"`
	ChannelName        string `json:"channelName,omitempty"`
	YoutubeAccessToken string `json:"youtubeAccessToken,omitempty"`
	VideoURL           string `json:"videoUrl,omitempty"`

	// twitter
	TwitterAccountID string `json:"twitterAccountId,omitempty"`
}

type ScheduledPostResponse struct {
	ID      string `json:"_id"`
	PostID  string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *struct {
		ID string `json:"_id"`
	} `json:"data,omitempty"`
}

// CreatedID picks the post id out of whichever shape the backend answered with.
func (r *ScheduledPostResponse) CreatedID() string {
	if r.Data != nil && r.Data.ID != "" {
		return r.Data.ID
	}
	return firstNonEmpty(r.ID, r.PostID)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SubmissionStatusUpdate struct {
	Status    string `json:"status" validate:"required,oneof=approved rejected"`
	VersionID string `json:"versionId" validate:"required"`
	Feedback  string `json:"feedback,omitempty"`
}
