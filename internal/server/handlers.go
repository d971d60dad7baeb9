package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lox/bingoblitz/internal/card"
	"github.com/lox/bingoblitz/internal/roomcode"
)

func (s *Server) addRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/card", s.handleCard)
	r.Get("/ws", s.handleWebSocket)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": s.ConnectionCount(),
	})
}

// handleCard returns the card a player would hold in a room, without
// starting a round.
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	seed := roomcode.Normalize(r.URL.Query().Get("seed"))
	if seed == "" {
		writeError(w, http.StatusBadRequest, "seed is required")
		return
	}
	if err := roomcode.Validate(seed); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	player := r.URL.Query().Get("player")

	writeJSON(w, http.StatusOK, CardResponse{
		Seed:   seed,
		Player: player,
		Card:   *card.Generate(card.DeriveSeed(seed, player)),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.newSession(player), s.logger)
	s.register(client)
	client.Start()

	go func() {
		<-client.Done()
		s.unregister(client)
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorData{Code: http.StatusText(status), Message: msg})
}
