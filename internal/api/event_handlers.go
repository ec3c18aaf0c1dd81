package api

import (
	"log"
	"net/http"
	"strconv"
)

// @Summary      Get new events
// @Description  Returns journal events (uploads, files shared with you) since a given event ID, for client-side cache synchronization.
// @Tags         events
// @Produce      json
// @Security     SessionCookie
// @Param        since  query     int  false  "The ID of the last event received. Omit or use 0 to get all events."
// @Success      200    {array}   database.Event
// @Failure      400    {string}  string "Bad Request"
// @Failure      401    {string}  string "Unauthorized"
// @Failure      500    {string}  string "Failed to retrieve events"
// @Router       /events [get]
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sinceStr := r.URL.Query().Get("since")
	if sinceStr == "" {
		sinceStr = "0"
	}

	sinceID, err := strconv.ParseInt(sinceStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'since' parameter, must be a number", http.StatusBadRequest)
		return
	}

	events, err := s.store.GetEventsSince(r.Context(), user.ID, sinceID)
	if err != nil {
		log.Printf("ERROR: fetching events for user %d failed: %v", user.ID, err)
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
