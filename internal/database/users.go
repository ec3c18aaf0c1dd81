package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"skyvault/internal/models"
)

const userColumns = `id, account_id, full_name, email, avatar_url, created_at`

type CreateUserParams struct {
	AccountID string
	FullName  string
	Email     string
	AvatarURL string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	sql := `
		INSERT INTO users (account_id, full_name, email, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := q.db.QueryRow(ctx, sql, arg.AccountID, arg.FullName, arg.Email, arg.AvatarURL)
	return scanUserRow(row)
}

// CreateUserWithOTP creates the account and its first pending code in one
// transaction: a sign-up either leaves a user with a code they can verify
// or no user at all.
func (s *Store) CreateUserWithOTP(ctx context.Context, arg CreateUserParams, codeHash string, expiresAt time.Time) (*models.User, error) {
	var user *models.User
	err := s.ExecTx(ctx, func(q *Queries) error {
		var err error
		user, err = q.CreateUser(ctx, arg)
		if err != nil {
			return err
		}
		return q.UpsertOTP(ctx, user.AccountID, codeHash, expiresAt)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := "SELECT " + userColumns + " FROM users WHERE email = $1"

	user, err := scanUserRow(q.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (q *Queries) GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	sql := "SELECT " + userColumns + " FROM users WHERE account_id = $1"

	user, err := scanUserRow(q.db.QueryRow(ctx, sql, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func scanUserRow(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.AccountID,
		&user.FullName,
		&user.Email,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
