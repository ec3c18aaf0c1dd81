package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"skyvault/internal/models"
)

// signUpUser runs the full OTP flow for a fresh address and returns the
// profile plus the session cookie the browser would hold afterwards.
func signUpUser(t *testing.T, fullName string) (*models.User, *http.Cookie) {
	t.Helper()

	email := fmt.Sprintf("%s_%s@example.com", fullName, uuid.NewString()[:8])

	body, _ := json.Marshal(RequestOTPRequest{Email: email, FullName: fullName})
	req := httptest.NewRequest("POST", "/api/v1/auth/otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RequestOTPHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var otpResp RequestOTPResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &otpResp))
	require.NotEmpty(t, otpResp.AccountID)

	code := testMailer.codeFor(email)
	require.NotEmpty(t, code, "a code should have been mailed")

	body, _ = json.Marshal(VerifyOTPRequest{AccountID: otpResp.AccountID, Code: code})
	req = httptest.NewRequest("POST", "/api/v1/auth/sessions", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.VerifyOTPHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "verification should set the session cookie")

	user, err := testServer.store.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user, cookie
}

func authedRouter() chi.Router {
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(testServer.AuthMiddleware)
		r.Get("/api/v1/me", testServer.GetCurrentUserHandler)
		r.Get("/api/v1/usage", testServer.GetUsageHandler)
		r.Get("/api/v1/events", testServer.GetEventsHandler)
		r.Post("/api/v1/files", testServer.UploadFilesHandler)
		r.Get("/api/v1/files", testServer.ListFilesHandler)
		r.Patch("/api/v1/files/{fileId}", testServer.RenameFileHandler)
		r.Put("/api/v1/files/{fileId}/users", testServer.UpdateSharingHandler)
		r.Delete("/api/v1/files/{fileId}", testServer.DeleteFileHandler)
	})
	router.Get("/api/v1/files/{fileId}/view", testServer.ViewFileHandler)
	router.Get("/api/v1/files/{fileId}/download", testServer.DownloadFileHandler)
	return router
}

func uploadFile(t *testing.T, cookie *http.Cookie, filename, content string) *models.File {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var results []UploadResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 1)
	require.Empty(t, results[0].Error)
	require.NotNil(t, results[0].File)
	return results[0].File
}

func TestAPI_AuthFlow(t *testing.T) {
	user, cookie := signUpUser(t, "authflow")

	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)

	var sessionCount int
	err := testServer.store.GetPool().QueryRow(context.Background(),
		"SELECT COUNT(*) FROM sessions WHERE user_id = $1", user.ID).Scan(&sessionCount)
	require.NoError(t, err)
	require.Equal(t, 1, sessionCount, "verification should create a session row")

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, user.Email, me.Email)

	// Sign out, then the same cookie no longer authenticates.
	req = httptest.NewRequest("DELETE", "/api/v1/auth/sessions", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.SignOutHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	err = testServer.store.GetPool().QueryRow(context.Background(),
		"SELECT COUNT(*) FROM sessions WHERE user_id = $1", user.ID).Scan(&sessionCount)
	require.NoError(t, err)
	require.Zero(t, sessionCount, "sign-out should delete the session row")

	req = httptest.NewRequest("GET", "/api/v1/me", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_RequestOTP_SignInUnknownEmail(t *testing.T) {
	body, _ := json.Marshal(RequestOTPRequest{Email: "stranger@example.com"})
	req := httptest.NewRequest("POST", "/api/v1/auth/otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RequestOTPHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_VerifyOTP_WrongCode(t *testing.T) {
	email := fmt.Sprintf("wrongcode_%s@example.com", uuid.NewString()[:8])
	body, _ := json.Marshal(RequestOTPRequest{Email: email, FullName: "Wrong Code"})
	req := httptest.NewRequest("POST", "/api/v1/auth/otp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RequestOTPHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var otpResp RequestOTPResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &otpResp))

	wrong := "000000"
	if testMailer.codeFor(email) == wrong {
		wrong = "111111"
	}
	body, _ = json.Marshal(VerifyOTPRequest{AccountID: otpResp.AccountID, Code: wrong})
	req = httptest.NewRequest("POST", "/api/v1/auth/sessions", bytes.NewReader(body))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.VerifyOTPHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_UploadAndListFlow(t *testing.T) {
	_, cookie := signUpUser(t, "uploader")

	uploaded := uploadFile(t, cookie, "report.PDF", "pretend this is a pdf")
	require.Equal(t, "report.PDF", uploaded.Name)
	require.Equal(t, "document", string(uploaded.Category))
	require.Equal(t, "pdf", uploaded.Extension)

	req := httptest.NewRequest("GET", "/api/v1/files?type=document&sort=$createdAt-desc", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var listResp ListFilesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Equal(t, int64(1), listResp.Total)
	require.Equal(t, uploaded.ID, listResp.Files[0].ID)

	// Search that misses.
	req = httptest.NewRequest("GET", "/api/v1/files?search=nothing-matches-this", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Zero(t, listResp.Total)
}

func TestAPI_ListFiles_UnknownType(t *testing.T) {
	_, cookie := signUpUser(t, "badtype")

	req := httptest.NewRequest("GET", "/api/v1/files?type=archive", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_ListFiles_UnknownSortField(t *testing.T) {
	_, cookie := signUpUser(t, "badsort")

	req := httptest.NewRequest("GET", "/api/v1/files?sort=foo-asc", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPI_ListFiles_RequiresAuth(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/files", nil)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_RenameFile(t *testing.T) {
	_, cookie := signUpUser(t, "renamer")
	uploaded := uploadFile(t, cookie, "draft.docx", "words")

	body, _ := json.Marshal(RenameFileRequest{Name: "final", Extension: "docx"})
	req := httptest.NewRequest("PATCH", "/api/v1/files/"+uploaded.ID, bytes.NewReader(body))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var renamed models.File
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &renamed))
	require.Equal(t, "final.docx", renamed.Name)
}

func TestAPI_RenameFile_NotOwner(t *testing.T) {
	_, ownerCookie := signUpUser(t, "rename_owner")
	_, strangerCookie := signUpUser(t, "rename_stranger")
	uploaded := uploadFile(t, ownerCookie, "mine.txt", "mine")

	body, _ := json.Marshal(RenameFileRequest{Name: "stolen", Extension: "txt"})
	req := httptest.NewRequest("PATCH", "/api/v1/files/"+uploaded.ID, bytes.NewReader(body))
	req.AddCookie(strangerCookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_ShareFlow(t *testing.T) {
	_, aliceCookie := signUpUser(t, "share_alice")
	bob, bobCookie := signUpUser(t, "share_bob")
	uploaded := uploadFile(t, aliceCookie, "shared.pdf", "shared content")

	// Before sharing, bob sees nothing.
	req := httptest.NewRequest("GET", "/api/v1/files", nil)
	req.AddCookie(bobCookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var listResp ListFilesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Zero(t, listResp.Total)

	body, _ := json.Marshal(UpdateSharingRequest{Emails: []string{bob.Email}})
	req = httptest.NewRequest("PUT", "/api/v1/files/"+uploaded.ID+"/users", bytes.NewReader(body))
	req.AddCookie(aliceCookie)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("GET", "/api/v1/files", nil)
	req.AddCookie(bobCookie)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Equal(t, int64(1), listResp.Total)
	require.Equal(t, uploaded.ID, listResp.Files[0].ID)

	// The share landed in bob's event journal.
	req = httptest.NewRequest("GET", "/api/v1/events?since=0", nil)
	req.AddCookie(bobCookie)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "file_shared_with_you")
}

func TestAPI_DeleteFile(t *testing.T) {
	_, cookie := signUpUser(t, "deleter")
	uploaded := uploadFile(t, cookie, "old.log", "stale")

	req := httptest.NewRequest("DELETE", "/api/v1/files/"+uploaded.ID, nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	req = httptest.NewRequest("GET", "/api/v1/files/"+uploaded.ID+"/view", nil)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_ViewAndDownload(t *testing.T) {
	_, cookie := signUpUser(t, "viewer")
	content := "bytes to stream"
	uploaded := uploadFile(t, cookie, "stream.txt", content)

	req := httptest.NewRequest("GET", "/api/v1/files/"+uploaded.ID+"/view", nil)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, content, rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Disposition"), "inline")

	req = httptest.NewRequest("GET", "/api/v1/files/"+uploaded.ID+"/download", nil)
	rr = httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, content, rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=\"stream.txt\"")
}

func TestAPI_Usage(t *testing.T) {
	_, cookie := signUpUser(t, "usage_user")
	uploadFile(t, cookie, "a.pdf", "0123456789")
	uploadFile(t, cookie, "b.mp3", "01234")

	req := httptest.NewRequest("GET", "/api/v1/usage", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	authedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var usage UsageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &usage))
	require.Equal(t, int64(15), usage.Summary.UsedBytes)
	require.Equal(t, int64(10), usage.Summary.PerCategory["document"].SizeBytes)
	require.Equal(t, int64(5), usage.Summary.PerCategory["audio"].SizeBytes)
}

func TestAPI_HealthCheck(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.HealthCheckHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}
