package api

import (
	"encoding/json"
	"net/http"

	"skyvault/internal/config"
	"skyvault/internal/database"
	"skyvault/internal/files"
	"skyvault/internal/identity"
	"skyvault/internal/realtime"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session-token"

type Server struct {
	config   *config.Config
	store    *database.Store
	files    *files.Service
	identity *identity.Service
	hub      *realtime.Hub
}

func NewServer(cfg *config.Config, store *database.Store, fileService *files.Service, identityService *identity.Service, hub *realtime.Hub) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		files:    fileService,
		identity: identityService,
		hub:      hub,
	}
}

// @Summary      Health check
// @Tags         meta
// @Produce      plain
// @Success      200  {string}  string "ok"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
