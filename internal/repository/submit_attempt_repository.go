package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
)

const createSubmitAttemptsTable = `
	CREATE TABLE IF NOT EXISTS submit_attempts (
		id            BIGSERIAL PRIMARY KEY,
		session_id    TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		assignment_id TEXT NOT NULL DEFAULT '',
		platform      TEXT NOT NULL,
		post_id       TEXT NOT NULL DEFAULT '',
		image_count   INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type SubmitAttemptRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, sa *models.SubmitAttempt) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SubmitAttempt, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*models.SubmitAttempt, error)
}

type submitAttemptRepository struct {
	db *sql.DB
}

func NewSubmitAttemptRepository(db *sql.DB) SubmitAttemptRepository {
	return &submitAttemptRepository{db: db}
}

func (r *submitAttemptRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSubmitAttemptsTable); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *submitAttemptRepository) Create(ctx context.Context, sa *models.SubmitAttempt) (int64, error) {
	query := `
		INSERT INTO submit_attempts (session_id, user_id, assignment_id, platform, post_id, image_count, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		sa.SessionID, sa.UserID, sa.AssignmentID, sa.Platform, sa.PostID, sa.ImageCount, sa.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *submitAttemptRepository) GetByID(ctx context.Context, id int64) (*models.SubmitAttempt, error) {
	query := `
		SELECT id, session_id, user_id, assignment_id, platform, post_id, image_count, error_message, created_at
		FROM submit_attempts WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var sa models.SubmitAttempt
	err := row.Scan(&sa.ID, &sa.SessionID, &sa.UserID, &sa.AssignmentID, &sa.Platform, &sa.PostID, &sa.ImageCount, &sa.ErrorMessage, &sa.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sa, nil
}

func (r *submitAttemptRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*models.SubmitAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, session_id, user_id, assignment_id, platform, post_id, image_count, error_message, created_at
		FROM submit_attempts WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var attempts []*models.SubmitAttempt
	for rows.Next() {
		var sa models.SubmitAttempt
		err := rows.Scan(&sa.ID, &sa.SessionID, &sa.UserID, &sa.AssignmentID, &sa.Platform, &sa.PostID, &sa.ImageCount, &sa.ErrorMessage, &sa.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		attempts = append(attempts, &sa)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return attempts, nil
}
