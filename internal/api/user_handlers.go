package api

import (
	"log"
	"net/http"

	"skyvault/internal/filetype"
)

// @Summary      Get current user
// @Description  Returns the profile of the user behind the session cookie.
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  models.User
// @Failure      401  {string}  string "Unauthorized"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Could not resolve current user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type UsageResponse struct {
	Summary     *filetype.UsageSummary `json:"summary"`
	UsedPercent float64                `json:"used_percent"`
}

// @Summary      Get storage usage
// @Description  Folds the user's own files into per-category byte totals and latest-update timestamps against the fixed 2 GiB quota. Files shared by others do not count.
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  UsageResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Failed to compute usage"
// @Router       /usage [get]
func (s *Server) GetUsageHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	summary, err := s.files.UsageSummary(r.Context(), user)
	if err != nil {
		log.Printf("ERROR: usage summary for user %d failed: %v", user.ID, err)
		http.Error(w, "Failed to compute usage", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, UsageResponse{
		Summary:     summary,
		UsedPercent: filetype.UsagePercentage(summary.UsedBytes),
	})
}
