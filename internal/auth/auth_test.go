package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skyvault/internal/models"
)

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP()
	require.NoError(t, err)
	require.Len(t, code, OTPLength)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9', "OTP must be numeric, got %q", code)
	}

	other, err := GenerateOTP()
	require.NoError(t, err)
	// Six random digits colliding twice in a row would be suspicious.
	if code == other {
		third, err := GenerateOTP()
		require.NoError(t, err)
		require.NotEqual(t, code, third)
	}
}

func TestHashAndCheckOTP(t *testing.T) {
	hash, err := HashOTP("482913")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "482913", hash)

	require.True(t, CheckOTPHash("482913", hash))
	require.False(t, CheckOTPHash("000000", hash))
}

func TestSignAndVerifySessionToken(t *testing.T) {
	secret := "session_test_secret"
	user := &models.User{
		ID:        42,
		AccountID: "acct_123",
		Email:     "ada@example.com",
	}
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		AccountID: user.AccountID,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tokenString, err := SignSessionToken(session, user, secret)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifySessionToken(tokenString, secret)
	require.NoError(t, err)
	require.Equal(t, session.ID.String(), claims.SessionID)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.AccountID, claims.AccountID)
	require.Equal(t, user.Email, claims.Email)
	require.WithinDuration(t, session.ExpiresAt, claims.ExpiresAt.Time, time.Second)

	_, err = VerifySessionToken(tokenString, "wrong_secret")
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	secret := "session_test_secret"
	user := &models.User{ID: 1, AccountID: "acct", Email: "a@b.c"}
	session := &models.Session{
		ID:        uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	tokenString, err := SignSessionToken(session, user, secret)
	require.NoError(t, err)

	_, err = VerifySessionToken(tokenString, secret)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}
