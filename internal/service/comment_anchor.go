package service

import "github.com/maheshrc27/postflow-studio/internal/models"

type Placement string

const (
	PlacementLeft  Placement = "left"
	PlacementRight Placement = "right"
)

// VisibleComments keeps the comments pinned to the media item currently on
// screen. Comments without an explicit media index live on index 0.
func VisibleComments(comments []models.Comment, mediaIndex int) []models.Comment {
	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.MediaIndex == mediaIndex {
			visible = append(visible, c)
		}
	}
	return visible
}

// CommentPlacement picks the side of the pin the detail box opens on so it
// stays inside a container of the given width.
func CommentPlacement(c models.Comment, containerWidth float64) Placement {
	if c.X > containerWidth/2 {
		return PlacementLeft
	}
	return PlacementRight
}

type AnchoredComment struct {
	models.Comment
	Placement Placement `json:"placement"`
}

// AnchorComments combines VisibleComments and CommentPlacement for one render.
func AnchorComments(comments []models.Comment, mediaIndex int, containerWidth float64) []AnchoredComment {
	visible := VisibleComments(comments, mediaIndex)
	anchored := make([]AnchoredComment, 0, len(visible))
	for _, c := range visible {
		anchored = append(anchored, AnchoredComment{Comment: c, Placement: CommentPlacement(c, containerWidth)})
	}
	return anchored
}
