package service

import (
	"path"
	"strings"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

var videoExtensions = map[string]struct{}{
	"mp4": {}, "webm": {}, "ogg": {}, "mov": {}, "avi": {},
}

// NormalizeMedia turns the mixed media lists the backend stores (bare URL
// strings or objects exposing url/src/href) into MediaItems. Entries that do
// not resolve to a non-empty URL are dropped.
func NormalizeMedia(raw []any) []models.MediaItem {
	items := make([]models.MediaItem, 0, len(raw))
	for _, entry := range raw {
		item, ok := normalizeEntry(entry)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

func normalizeEntry(entry any) (models.MediaItem, bool) {
	switch v := entry.(type) {
	case string:
		return mediaFromURL(v, "")
	case models.MediaItem:
		return mediaFromURL(v.URL, v.Type)
	case map[string]any:
		for _, key := range []string{"url", "src", "href"} {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				explicit, _ := v["type"].(string)
				return mediaFromURL(s, explicit)
			}
		}
	}
	return models.MediaItem{}, false
}

func mediaFromURL(rawURL, explicitType string) (models.MediaItem, bool) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return models.MediaItem{}, false
	}
	t := strings.ToLower(strings.TrimSpace(explicitType))
	if t != models.MediaTypeImage && t != models.MediaTypeVideo {
		t = MediaTypeFromURL(u)
	}
	return models.MediaItem{URL: u, Type: t}, true
}

// MediaTypeFromURL classifies by lowercase file extension, ignoring any query
// string or fragment.
func MediaTypeFromURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u)), ".")
	if _, ok := videoExtensions[ext]; ok {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}
