package service

import (
	"fmt"
	"testing"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func images(n int) []models.MediaItem {
	items := make([]models.MediaItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, models.MediaItem{URL: fmt.Sprintf("https://x/%d.png", i), Type: models.MediaTypeImage})
	}
	return items
}

func TestPlatformMediaCap(t *testing.T) {
	assert.Equal(t, 10, PlatformMediaCap(models.PlatformInstagram))
	assert.Equal(t, 10, PlatformMediaCap(models.PlatformFacebook))
	assert.Equal(t, 4, PlatformMediaCap(models.PlatformTwitter))
	assert.Equal(t, 1, PlatformMediaCap(models.PlatformYoutube))
}

func TestCarouselSelector_ToggleTwiceRestores(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformInstagram, images(3))
	require.NoError(t, sel.Toggle(images(3)[1]))
	before := sel.Selected()

	item := images(3)[2]
	require.NoError(t, sel.Toggle(item))
	require.NoError(t, sel.Toggle(item))

	assert.Equal(t, before, sel.Selected())
}

func TestCarouselSelector_CapEnforced(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformTwitter, images(6))
	for i, item := range images(6) {
		err := sel.Toggle(item)
		if i < TwitterMaxMedia {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrSelectionFull)
		}
		assert.LessOrEqual(t, len(sel.Selected()), sel.Cap())
	}
}

func TestCarouselSelector_SelectAllThenClear(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformInstagram, images(12))

	sel.SelectAll()
	assert.Len(t, sel.Selected(), CarouselMaxImages)
	assert.Equal(t, images(12)[:10], sel.Selected())

	sel.ClearAll()
	assert.Empty(t, sel.Selected())
	assert.False(t, sel.IsCarousel())
}

func TestCarouselSelector_InstagramSelectAll(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformFacebook, images(3))
	sel.SetPlatform(models.PlatformInstagram)

	sel.SelectAll()

	assert.Equal(t, images(3), sel.Selected())
	assert.True(t, sel.IsCarousel())
}

func TestCarouselSelector_SetPlatformTrims(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformInstagram, images(5))
	sel.SelectAll()

	sel.SetPlatform(models.PlatformYoutube)

	assert.Equal(t, images(1), sel.Selected())
}

func TestCarouselSelector_UnknownMedia(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformInstagram, images(1))
	assert.ErrorIs(t, sel.Toggle(models.MediaItem{URL: "https://elsewhere/x.png"}), ErrMediaNotAvailable)
}

func TestCarouselSelector_DedupesAvailable(t *testing.T) {
	dup := append(images(2), images(2)...)
	sel := NewCarouselSelector(models.PlatformInstagram, dup)
	assert.Len(t, sel.Available(), 2)

	sel.AddAvailable(images(2)[0])
	sel.AddAvailable(models.MediaItem{URL: "https://x/new.jpg"})
	assert.Len(t, sel.Available(), 3)
	require.NoError(t, sel.Toggle(models.MediaItem{URL: "https://x/new.jpg"}))
	assert.True(t, sel.IsSelected("https://x/new.jpg"))
}

func TestCarouselSelector_SelectedIsACopy(t *testing.T) {
	sel := NewCarouselSelector(models.PlatformInstagram, images(2))
	sel.SelectAll()

	got := sel.Selected()
	got[0].URL = "mutated"

	assert.Equal(t, images(2), sel.Selected())
}
