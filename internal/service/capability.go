package service

import "github.com/maheshrc27/postflow-studio/internal/models"

// Capability is what a user may do with one content resource.
type Capability struct {
	CanView     bool `json:"canView"`
	CanComment  bool `json:"canComment"`
	CanReview   bool `json:"canReview"`
	CanSchedule bool `json:"canSchedule"`
}

// Resource identifies the owner and creator of a piece of content.
type Resource struct {
	CustomerID string
	CreatorID  string
}

// RoleCapabilities is what a role allows on content within its reach: any
// content for admins, their own content for customers and their assigned
// content for creators. It describes no particular resource.
func RoleCapabilities(role string) Capability {
	switch role {
	case models.RoleAdmin:
		return Capability{CanView: true, CanComment: true, CanReview: true, CanSchedule: true}
	case models.RoleCustomer:
		return Capability{CanView: true, CanComment: true, CanReview: true}
	case models.RoleCreator:
		return Capability{CanView: true}
	}
	return Capability{}
}

// Classify replaces role checks scattered through views with one decision.
func Classify(user models.User, res Resource) Capability {
	if user.Role != models.RoleAdmin && !withinReach(user, res) {
		return Capability{}
	}
	return RoleCapabilities(user.Role)
}

func withinReach(user models.User, res Resource) bool {
	if user.ID == "" {
		return false
	}
	switch user.Role {
	case models.RoleCustomer:
		return user.ID == res.CustomerID
	case models.RoleCreator:
		return user.ID == res.CreatorID
	}
	return false
}

// VisibleContent filters aggregated content down to what the user may view.
// Creator lists are already scoped by the backend through the forwarded token.
func VisibleContent(user models.User, content []models.CustomerContent) []models.CustomerContent {
	switch user.Role {
	case models.RoleAdmin, models.RoleCreator:
		return content
	}
	visible := make([]models.CustomerContent, 0, len(content))
	for _, c := range content {
		if Classify(user, Resource{CustomerID: c.CustomerID}).CanView {
			visible = append(visible, c)
		}
	}
	return visible
}

// ItemResource describes a content item for Classify. Submissions carry no
// creator, and a creator only ever receives their own assignments from the
// backend, so a creator holding the item is treated as its creator.
func ItemResource(user models.User, item *models.ContentItem) Resource {
	res := Resource{CustomerID: item.CustomerID}
	if user.Role == models.RoleCreator {
		res.CreatorID = user.ID
	}
	return res
}
