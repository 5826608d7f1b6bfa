package service

import (
	"errors"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

const (
	CarouselMaxImages = 10
	TwitterMaxMedia   = 4
)

var (
	ErrSelectionFull     = errors.New("selection is full for this platform")
	ErrMediaNotAvailable = errors.New("media is not available for this post")
)

// PlatformMediaCap is the largest selection a platform accepts.
func PlatformMediaCap(platform string) int {
	switch platform {
	case models.PlatformInstagram, models.PlatformFacebook:
		return CarouselMaxImages
	case models.PlatformTwitter:
		return TwitterMaxMedia
	default:
		// youtube takes a single video; unknown platforms get the same slot.
		return 1
	}
}

// CarouselSelector is the ordered, de-duplicated media selection of one
// composer. It is not safe for concurrent use; the owning Scheduler
// serializes access.
type CarouselSelector struct {
	platform  string
	available []models.MediaItem
	selected  []models.MediaItem
}

func NewCarouselSelector(platform string, available []models.MediaItem) *CarouselSelector {
	return &CarouselSelector{
		platform:  platform,
		available: dedupe(available),
	}
}

func (c *CarouselSelector) Cap() int {
	return PlatformMediaCap(c.platform)
}

// SetPlatform switches the active platform and trims the selection to the
// new cap, keeping the earliest picks.
func (c *CarouselSelector) SetPlatform(platform string) {
	c.platform = platform
	if limit := c.Cap(); len(c.selected) > limit {
		c.selected = c.selected[:limit]
	}
}

// AddAvailable registers media that became available after opening, such as
// a fresh upload. Duplicates are ignored.
func (c *CarouselSelector) AddAvailable(item models.MediaItem) {
	if indexByURL(c.available, item.URL) >= 0 {
		return
	}
	c.available = append(c.available, item)
}

// Toggle removes the item when selected, otherwise appends it unless the
// selection is already at the platform cap.
func (c *CarouselSelector) Toggle(item models.MediaItem) error {
	if i := indexByURL(c.selected, item.URL); i >= 0 {
		c.selected = append(c.selected[:i:i], c.selected[i+1:]...)
		return nil
	}
	j := indexByURL(c.available, item.URL)
	if j < 0 {
		return ErrMediaNotAvailable
	}
	if len(c.selected) >= c.Cap() {
		return ErrSelectionFull
	}
	c.selected = append(c.selected, c.available[j])
	return nil
}

// SelectAll selects the first min(len(available), cap) items in their
// original order.
func (c *CarouselSelector) SelectAll() {
	n := min(len(c.available), c.Cap())
	c.selected = append([]models.MediaItem(nil), c.available[:n]...)
}

func (c *CarouselSelector) ClearAll() {
	c.selected = nil
}

func (c *CarouselSelector) Selected() []models.MediaItem {
	return append([]models.MediaItem(nil), c.selected...)
}

func (c *CarouselSelector) Available() []models.MediaItem {
	return append([]models.MediaItem(nil), c.available...)
}

func (c *CarouselSelector) IsSelected(url string) bool {
	return indexByURL(c.selected, url) >= 0
}

// IsCarousel reports whether the selection makes a multi-item post.
func (c *CarouselSelector) IsCarousel() bool {
	return len(c.selected) > 1
}

func indexByURL(items []models.MediaItem, url string) int {
	for i, m := range items {
		if m.URL == url {
			return i
		}
	}
	return -1
}

func dedupe(items []models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, 0, len(items))
	for _, m := range items {
		if m.URL == "" || indexByURL(out, m.URL) >= 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}
