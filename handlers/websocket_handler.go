package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/courtsidehq/courtside/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin browsers are expected: overlays and scoreboard
		// displays are served from their own hosts. DisplayAuth already
		// gates who may connect.
		return true
	},
}

// WebSocketHandler upgrades display clients into hub rooms. Viewers of a
// match room receive every committed update of that match; viewers of a
// tournament room receive updates for all its matches.
type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// ServeMatch handles GET /ws/matches/{matchID}.
func (h *WebSocketHandler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		http.Error(w, "invalid match id", http.StatusBadRequest)
		return
	}

	h.serve(w, r, brackets.RoomForMatch(matchID))
}

// ServeTournament handles GET /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}

	h.serve(w, r, brackets.RoomForTournament(tournamentID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", "room", roomID, "error", err)
		return
	}

	client := &brackets.Client{
		ID:   uuid.NewString(),
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
