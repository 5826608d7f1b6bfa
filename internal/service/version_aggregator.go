package service

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

var ErrContentNotFound = errors.New("content item not found")

var hashtagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)

const maxTitleLength = 60

// ExtractHashtags returns the #tokens of a caption in order of appearance.
func ExtractHashtags(caption string) []string {
	return hashtagPattern.FindAllString(caption, -1)
}

// StripHashtags removes #tokens from a caption and tidies the whitespace
// they leave behind.
func StripHashtags(caption string) string {
	lines := strings.Split(hashtagPattern.ReplaceAllString(caption, ""), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ToContentSubmission resolves the field aliases of a raw submission and
// normalizes its media and comments.
func ToContentSubmission(s transfer.Submission) models.ContentSubmission {
	comments := make([]models.Comment, 0, len(s.Comments))
	for _, c := range s.Comments {
		comments = append(comments, toComment(c))
	}
	return models.ContentSubmission{
		ID:           s.SubmissionID(),
		CustomerID:   s.Customer(),
		AssignmentID: s.Assignment(),
		Title:        s.Title,
		Caption:      s.Caption,
		Hashtags:     s.Hashtags,
		Notes:        s.Notes,
		Platform:     s.Platform,
		Media:        NormalizeMedia(s.RawMedia()),
		Status:       s.Status,
		CreatedAt:    s.Created(),
		Comments:     comments,
	}
}

func toComment(c transfer.RawComment) models.Comment {
	comment := models.Comment{
		ID:        c.ID,
		Message:   c.Message,
		Done:      c.Done,
		Timestamp: transfer.ParseTimestamp(c.Timestamp),
	}
	if comment.ID == "" {
		comment.ID = c.MongoID
	}
	if comment.Message == "" {
		comment.Message = c.Comment
	}
	if comment.Timestamp.IsZero() {
		comment.Timestamp = transfer.ParseTimestamp(c.CreatedAt)
	}
	if c.MediaIndex != nil && *c.MediaIndex >= 0 {
		comment.MediaIndex = *c.MediaIndex
	}
	switch {
	case c.X != nil || c.Y != nil:
		comment.X, comment.Y = deref(c.X), deref(c.Y)
	case c.Position != nil:
		comment.X, comment.Y = deref(c.Position.X), deref(c.Position.Y)
	}
	return comment
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// AggregateSubmissions groups submissions by customer, then by assignment,
// and turns every assignment group into a ContentItem whose versions are
// ordered oldest first.
func AggregateSubmissions(submissions []models.ContentSubmission) []models.CustomerContent {
	byCustomer := make(map[string]map[string][]models.ContentSubmission)
	for _, s := range submissions {
		assignment := s.AssignmentID
		if assignment == "" {
			assignment = s.ID
		}
		if byCustomer[s.CustomerID] == nil {
			byCustomer[s.CustomerID] = make(map[string][]models.ContentSubmission)
		}
		byCustomer[s.CustomerID][assignment] = append(byCustomer[s.CustomerID][assignment], s)
	}

	result := make([]models.CustomerContent, 0, len(byCustomer))
	for customerID, groups := range byCustomer {
		items := make([]models.ContentItem, 0, len(groups))
		for assignmentID, group := range groups {
			items = append(items, BuildContentItem(customerID, assignmentID, group))
		}
		sort.SliceStable(items, func(i, j int) bool {
			ti, tj := latestActivity(items[i]), latestActivity(items[j])
			if !ti.Equal(tj) {
				return ti.After(tj)
			}
			return items[i].ID < items[j].ID
		})
		result = append(result, models.CustomerContent{CustomerID: customerID, Items: items})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CustomerID < result[j].CustomerID
	})
	return result
}

// BuildContentItem builds the version chain of one assignment.
func BuildContentItem(customerID, assignmentID string, group []models.ContentSubmission) models.ContentItem {
	sorted := make([]models.ContentSubmission, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	item := models.ContentItem{
		ID:         assignmentID,
		CustomerID: customerID,
		Versions:   make([]models.Version, 0, len(sorted)),
	}

	var feedback []models.Feedback
	for i, s := range sorted {
		hashtags := s.Hashtags
		if len(hashtags) == 0 {
			hashtags = ExtractHashtags(s.Caption)
		}
		status := s.Status
		if status == "" {
			status = models.ContentStatusUnderReview
		}
		v := models.Version{
			ID:            s.ID,
			VersionNumber: i + 1,
			Media:         s.Media,
			Caption:       s.Caption,
			Hashtags:      hashtags,
			Notes:         s.Notes,
			CreatedAt:     s.CreatedAt,
			Status:        status,
			Comments:      s.Comments,
		}
		item.Versions = append(item.Versions, v)
		for _, c := range s.Comments {
			feedback = append(feedback, models.Feedback{Comment: c, VersionNumber: v.VersionNumber})
		}
		if s.Platform != "" {
			item.Platform = s.Platform
		}
		if s.Title != "" {
			item.Title = s.Title
		}
	}

	sort.SliceStable(feedback, func(i, j int) bool {
		return feedback[i].Timestamp.After(feedback[j].Timestamp)
	})
	item.CustomerFeedback = feedback

	item.Status = models.ContentStatusUnderReview
	if latest := item.LatestVersion(); latest != nil {
		item.Status = latest.Status
		if item.Title == "" {
			item.Title = titleFromCaption(latest.Caption)
		}
	}
	if item.Title == "" {
		item.Title = assignmentID
	}
	return item
}

func titleFromCaption(caption string) string {
	line := StripHashtags(caption)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if utf8.RuneCountInString(line) <= maxTitleLength {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxTitleLength])) + "…"
}

func latestActivity(item models.ContentItem) time.Time {
	if latest := item.LatestVersion(); latest != nil {
		return latest.CreatedAt
	}
	return time.Time{}
}

// FindContentItem locates one customer's item by its id.
func FindContentItem(content []models.CustomerContent, customerID, contentID string) (*models.ContentItem, error) {
	for i := range content {
		if content[i].CustomerID != customerID {
			continue
		}
		for j := range content[i].Items {
			if content[i].Items[j].ID == contentID {
				return &content[i].Items[j], nil
			}
		}
	}
	return nil, ErrContentNotFound
}
