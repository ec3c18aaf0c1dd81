package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// UpsertOTP stores a fresh code hash for the account, replacing any
// earlier one: requesting a new code invalidates the previous code.
func (q *Queries) UpsertOTP(ctx context.Context, accountID, codeHash string, expiresAt time.Time) error {
	sql := `
		INSERT INTO otp_tokens (account_id, code_hash, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id)
		DO UPDATE SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = now()
	`
	_, err := q.db.Exec(ctx, sql, accountID, codeHash, expiresAt)
	return err
}

// GetActiveOTPHash returns the stored hash for an unexpired code, or ""
// when no code is pending.
func (q *Queries) GetActiveOTPHash(ctx context.Context, accountID string) (string, error) {
	sql := `SELECT code_hash FROM otp_tokens WHERE account_id = $1 AND expires_at > now()`

	var hash string
	err := q.db.QueryRow(ctx, sql, accountID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return hash, nil
}

// ConsumeOTP removes the pending code after successful verification. A
// failed verification leaves the code in place so it can be retried until
// it expires.
func (q *Queries) ConsumeOTP(ctx context.Context, accountID string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM otp_tokens WHERE account_id = $1`, accountID)
	return err
}
