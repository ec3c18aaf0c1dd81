package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"time"

	"skyvault/internal/identity"
)

type RequestOTPRequest struct {
	Email string `json:"email" example:"ada@example.com"`
	// FullName is required for sign-up and ignored for sign-in.
	FullName string `json:"full_name,omitempty" example:"Ada Lovelace"`
}

type RequestOTPResponse struct {
	AccountID string `json:"account_id" example:"V1StGXR8_Z5jdHi6B-myT"`
}

// @Summary      Request a one-time code
// @Description  Emails a one-time passcode. With full_name this is a sign-up: an unknown email gets an account created before the code is sent. Without full_name an unknown email is rejected.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RequestOTPRequest  true  "Email and optional full name"
// @Success      200      {object}  RequestOTPResponse
// @Failure      400      {string}  string "Invalid request body or malformed email"
// @Failure      404      {string}  string "User not found."
// @Failure      500      {string}  string "Failed to send OTP"
// @Router       /auth/otp [post]
func (s *Server) RequestOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}

	accountID, err := s.identity.RequestOTP(r.Context(), req.Email, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: OTP request for %s failed: %v", req.Email, err)
		http.Error(w, "Failed to send OTP", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RequestOTPResponse{AccountID: accountID})
}

type VerifyOTPRequest struct {
	AccountID string `json:"account_id" example:"V1StGXR8_Z5jdHi6B-myT"`
	Code      string `json:"code" example:"482913"`
}

type VerifyOTPResponse struct {
	SessionID string `json:"session_id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
}

// @Summary      Verify a one-time code
// @Description  Exchanges a valid code for a session. The session token is set as an HTTP-only cookie; a wrong code leaves the pending code retryable until it expires.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyOTPRequest  true  "Account ID and emailed code"
// @Success      200      {object}  VerifyOTPResponse
// @Failure      400      {string}  string "Invalid request body"
// @Failure      401      {string}  string "Invalid or expired code"
// @Failure      500      {string}  string "Failed to verify OTP"
// @Router       /auth/sessions [post]
func (s *Server) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, session, err := s.identity.VerifySecret(r.Context(), req.AccountID, req.Code, r.UserAgent(), r.RemoteAddr)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCode) {
			http.Error(w, "Invalid or expired code", http.StatusUnauthorized)
			return
		}
		log.Printf("ERROR: OTP verification for account %s failed: %v", req.AccountID, err)
		http.Error(w, "Failed to verify OTP", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, VerifyOTPResponse{SessionID: session.ID.String()})
}

// @Summary      Sign out
// @Description  Deletes the current session and clears the session cookie.
// @Tags         auth
// @Success      204  {null}    nil "No Content"
// @Failure      500  {string}  string "Failed to sign out"
// @Router       /auth/sessions [delete]
func (s *Server) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := s.identity.SignOut(r.Context(), cookie.Value); err != nil {
			log.Printf("ERROR: sign-out failed: %v", err)
			http.Error(w, "Failed to sign out", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	w.WriteHeader(http.StatusNoContent)
}
