package models

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformYoutube   = "youtube"
	PlatformTwitter   = "twitter"
)

type InstagramBusinessAccount struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type Page struct {
	ID                       string                    `json:"id"`
	Name                     string                    `json:"name"`
	AccessToken              string                    `json:"accessToken"`
	InstagramBusinessAccount *InstagramBusinessAccount `json:"instagramBusinessAccount,omitempty"`
}

type Channel struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
}

type SocialAccount struct {
	ID             string    `json:"_id"`
	Platform       string    `json:"platform"`
	Name           string    `json:"name"`
	PlatformUserID string    `json:"platformUserId"`
	AccessToken    string    `json:"accessToken"`
	Pages          []Page    `json:"pages,omitempty"`
	Channels       []Channel `json:"channels,omitempty"`
}

func (a *SocialAccount) PageByID(id string) *Page {
	for i := range a.Pages {
		if a.Pages[i].ID == id {
			return &a.Pages[i]
		}
	}
	return nil
}

func (a *SocialAccount) ChannelByID(id string) *Channel {
	for i := range a.Channels {
		if a.Channels[i].ID == id {
			return &a.Channels[i]
		}
	}
	return nil
}

type CustomerSocialLinks struct {
	CustomerID     string          `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	SocialAccounts []SocialAccount `json:"socialAccounts"`
}
