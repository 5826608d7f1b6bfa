package transfer

type OpenComposer struct {
	CustomerID   string `json:"customerId" validate:"required"`
	AssignmentID string `json:"assignmentId" validate:"required"`
}

// ComposerUpdate patches the composer form. Nil fields are left untouched.
type ComposerUpdate struct {
	Caption          *string `json:"caption"`
	Hashtags         *string `json:"hashtags"`
	Platform         *string `json:"platform" validate:"omitempty,oneof=facebook instagram youtube twitter"`
	AccountID        *string `json:"accountId"`
	PageID           *string `json:"pageId"`
	ChannelID        *string `json:"channelId"`
	TwitterAccountID *string `json:"twitterAccountId"`
	ScheduledDate    *string `json:"scheduledDate"`
	ScheduledTime    *string `json:"scheduledTime"`
	Timezone         *string `json:"timezone"`
}

type MediaToggle struct {
	URL string `json:"url" validate:"required"`
}

// AccountSummary is a social account as shown in the composer, without tokens.
type AccountSummary struct {
	ID       string           `json:"id"`
	Platform string           `json:"platform"`
	Name     string           `json:"name"`
	Pages    []PageSummary    `json:"pages,omitempty"`
	Channels []ChannelSummary `json:"channels,omitempty"`
}

type PageSummary struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	HasInstagramBusiness bool   `json:"hasInstagramBusiness"`
}

type ChannelSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SubscriberCount int64  `json:"subscriberCount"`
}
