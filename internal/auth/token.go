package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"skyvault/internal/models"
)

// SessionClaims is the payload of the signed session cookie. The session
// ID is re-checked against the session store on every request so that
// sign-out invalidates the token immediately.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func SignSessionToken(session *models.Session, user *models.User, secret string) (string, error) {
	claims := &SessionClaims{
		SessionID: session.ID.String(),
		UserID:    user.ID,
		AccountID: user.AccountID,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "skyvault",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifySessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
