package transfer

import (
	"strings"
	"time"
)

// Submission is the raw content submission as returned by
// GET /api/content-submissions. The backend has shipped both snake_case and
// camelCase field names over time, so both are accepted.
type Submission struct {
	ID              string       `json:"id"`
	MongoID         string       `json:"_id"`
	CustomerID      string       `json:"customerId"`
	CustomerIDSnake string       `json:"customer_id"`
	AssignmentID    string       `json:"assignmentId"`
	AssignmentSnake string       `json:"assignment_id"`
	Title           string       `json:"title"`
	Caption         string       `json:"caption"`
	Hashtags        []string     `json:"hashtags"`
	Notes           string       `json:"notes"`
	Platform        string       `json:"platform"`
	Media           []any        `json:"media"`
	Images          []any        `json:"images"`
	Status          string       `json:"status"`
	CreatedAt       string       `json:"created_at"`
	CreatedAtCamel  string       `json:"createdAt"`
	Comments        []RawComment `json:"comments"`
}

type RawPosition struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type RawComment struct {
	ID         string       `json:"id"`
	MongoID    string       `json:"_id"`
	Message    string       `json:"message"`
	Comment    string       `json:"comment"`
	MediaIndex *int         `json:"mediaIndex"`
	X          *float64     `json:"x"`
	Y          *float64     `json:"y"`
	Position   *RawPosition `json:"position"`
	Done       bool         `json:"done"`
	Timestamp  string       `json:"timestamp"`
	CreatedAt  string       `json:"createdAt"`
}

func (s *Submission) SubmissionID() string {
	return firstNonEmpty(s.ID, s.MongoID)
}

func (s *Submission) Customer() string {
	return firstNonEmpty(s.CustomerID, s.CustomerIDSnake)
}

func (s *Submission) Assignment() string {
	return firstNonEmpty(s.AssignmentID, s.AssignmentSnake)
}

func (s *Submission) RawMedia() []any {
	if len(s.Media) > 0 {
		return s.Media
	}
	return s.Images
}

func (s *Submission) Created() time.Time {
	return ParseTimestamp(firstNonEmpty(s.CreatedAt, s.CreatedAtCamel))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the handful of layouts the backend emits and
// returns the zero time for anything else.
func ParseTimestamp(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
