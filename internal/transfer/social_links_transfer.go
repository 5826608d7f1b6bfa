package transfer

import "github.com/maheshrc27/postflow-studio/internal/models"

// CustomerSocialLinksResponse is the envelope of GET /api/admin/customer-social-links.
type CustomerSocialLinksResponse struct {
	Success bool                         `json:"success"`
	Data    []models.CustomerSocialLinks `json:"data"`
	Error   string                       `json:"error,omitempty"`
}
