package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skyvault/internal/models"
)

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    int64
	AccountID string
	UserAgent string
	ClientIP  string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	sql := `
		INSERT INTO sessions (id, user_id, account_id, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, sql,
		arg.ID,
		arg.UserID,
		arg.AccountID,
		arg.UserAgent,
		arg.ClientIP,
		arg.ExpiresAt,
	)
	return err
}

// GetSessionByID returns nil for unknown or expired sessions.
func (q *Queries) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	sql := `
		SELECT id, user_id, account_id, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > now()
	`
	var session models.Session
	err := q.db.QueryRow(ctx, sql, id).Scan(
		&session.ID,
		&session.UserID,
		&session.AccountID,
		&session.UserAgent,
		&session.ClientIP,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
