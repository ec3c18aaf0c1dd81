package api

import (
	"log"
	"net/http"

	"skyvault/internal/realtime"
)

// ServeWsHandler upgrades an authenticated connection and registers it
// with the notification hub. The session cookie rides along on the
// upgrade request, so no separate token parameter is needed.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		log.Println("WS connection attempt without session cookie")
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := s.identity.CurrentUser(r.Context(), cookie.Value)
	if err != nil || user == nil {
		log.Printf("WS connection attempt with invalid session: %v", err)
		http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
		return
	}

	conn, err := realtime.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := realtime.NewClient(s.hub, conn, user.ID)
	s.hub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}
