package models

import "time"

type SubmitAttempt struct {
	ID           int64     `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"session_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	Platform     string    `db:"platform" json:"platform"`
	PostID       string    `db:"post_id" json:"post_id"`
	ImageCount   int       `db:"image_count" json:"image_count"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
