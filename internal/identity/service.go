// Package identity implements the OTP sign-in flow: request a code,
// verify it, resolve the current user, sign out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"skyvault/internal/auth"
	"skyvault/internal/database"
	"skyvault/internal/mail"
	"skyvault/internal/models"
)

const avatarPlaceholderURL = "/assets/images/avatar-placeholder.png"

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCode covers a wrong, expired, or never-requested code.
	// The stored code survives a failed attempt, so it can be retried
	// until it expires.
	ErrInvalidCode = errors.New("invalid or expired verification code")
)

// Store is the slice of the database store the identity flows need.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error)
	CreateUserWithOTP(ctx context.Context, arg database.CreateUserParams, codeHash string, expiresAt time.Time) (*models.User, error)
	UpsertOTP(ctx context.Context, accountID, codeHash string, expiresAt time.Time) error
	GetActiveOTPHash(ctx context.Context, accountID string) (string, error)
	ConsumeOTP(ctx context.Context, accountID string) error
	CreateSession(ctx context.Context, arg database.CreateSessionParams) error
	GetSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	DeleteSessionByID(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store        Store
	mailer       mail.Mailer
	tokenSecret  string
	sessionTTL   time.Duration
	otpTTL       time.Duration
	newAccountID func() string
}

func NewService(store Store, mailer mail.Mailer, tokenSecret string, sessionTTL, otpTTL time.Duration) (*Service, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &Service{
		store:        store,
		mailer:       mailer,
		tokenSecret:  tokenSecret,
		sessionTTL:   sessionTTL,
		otpTTL:       otpTTL,
		newAccountID: generateID,
	}, nil
}

// RequestOTP emails a one-time code for the address and returns the
// account ID the client must present at verification. A sign-up (fullName
// given) for an unknown address creates the account and its pending code
// in one transaction, so it exists before any verification attempt; a
// sign-in for an unknown address fails with ErrUserNotFound.
func (s *Service) RequestOTP(ctx context.Context, email, fullName string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil && fullName == "" {
		return "", ErrUserNotFound
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	codeHash, err := auth.HashOTP(code)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	expiresAt := time.Now().Add(s.otpTTL)

	if user == nil {
		user, err = s.store.CreateUserWithOTP(ctx, database.CreateUserParams{
			AccountID: s.newAccountID(),
			FullName:  fullName,
			Email:     email,
			AvatarURL: avatarPlaceholderURL,
		}, codeHash, expiresAt)
		if err != nil {
			return "", fmt.Errorf("failed to create user: %w", err)
		}
	} else if err := s.store.UpsertOTP(ctx, user.AccountID, codeHash, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		return "", fmt.Errorf("failed to send code: %w", err)
	}

	return user.AccountID, nil
}

// VerifySecret checks the emailed code and, on success, establishes a
// session and returns the signed token for the session cookie.
func (s *Service) VerifySecret(ctx context.Context, accountID, code, userAgent, clientIP string) (string, *models.Session, error) {
	user, err := s.store.GetUserByAccountID(ctx, accountID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCode
	}

	hash, err := s.store.GetActiveOTPHash(ctx, accountID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load pending code: %w", err)
	}
	if hash == "" || !auth.CheckOTPHash(code, hash) {
		return "", nil, ErrInvalidCode
	}

	if err := s.store.ConsumeOTP(ctx, accountID); err != nil {
		return "", nil, fmt.Errorf("failed to consume code: %w", err)
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		AccountID: user.AccountID,
		UserAgent: userAgent,
		ClientIP:  clientIP,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	err = s.store.CreateSession(ctx, database.CreateSessionParams{
		ID:        session.ID,
		UserID:    session.UserID,
		AccountID: session.AccountID,
		UserAgent: session.UserAgent,
		ClientIP:  session.ClientIP,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := auth.SignSessionToken(session, user, s.tokenSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return token, session, nil
}

// CurrentUser resolves the session token to a user. An invalid token, a
// missing or expired session, or a session without a matching profile all
// yield (nil, nil): "no current user" is not an error, it means the
// caller should send the client to login.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.VerifySessionToken(token, s.tokenSecret)
	if err != nil {
		return nil, nil
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, nil
	}

	session, err := s.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.store.GetUserByAccountID(ctx, session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// SignOut deletes the session behind the token. An invalid token is a
// no-op: the client is already signed out.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := auth.VerifySessionToken(token, s.tokenSecret)
	if err != nil {
		return nil
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil
	}

	return s.store.DeleteSessionByID(ctx, sessionID)
}
