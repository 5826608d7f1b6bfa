package service

import (
	"testing"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorComments(t *testing.T) {
	comments := []models.Comment{
		{ID: "a", MediaIndex: 0, X: 100},
		{ID: "b", MediaIndex: 1, X: 700},
		{ID: "c", MediaIndex: 0, X: 650},
		{ID: "d", MediaIndex: 0, X: 400},
	}

	got := AnchorComments(comments, 0, 800)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, PlacementRight, got[0].Placement)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, PlacementLeft, got[1].Placement)
	assert.Equal(t, PlacementRight, got[2].Placement, "exactly half opens to the right")
}

func TestVisibleComments_NoMatch(t *testing.T) {
	got := VisibleComments([]models.Comment{{ID: "a", MediaIndex: 2}}, 0)
	assert.Empty(t, got)
}
