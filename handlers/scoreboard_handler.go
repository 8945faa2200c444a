package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/marasteiner/flag-ding/scoreboard"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The scoreboard is public, same as the polling endpoint.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ScoreboardHandler struct {
	hub       *scoreboard.Hub
	publisher *scoreboard.Publisher
	logger    *slog.Logger
}

func NewScoreboardHandler(hub *scoreboard.Hub, publisher *scoreboard.Publisher, logger *slog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{
		hub:       hub,
		publisher: publisher,
		logger:    logger,
	}
}

// Snapshot serves the current scoreboard for pollers without websocket
// support.
func (h *ScoreboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.publisher.Snapshot(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"scoreboard": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ServeWs upgrades the connection and subscribes it to the tournament's
// scoreboard room.
func (h *ScoreboardHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIDParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &scoreboard.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: scoreboard.RoomID(tournamentID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	// Push the current state so a fresh subscriber does not wait for the
	// next score. The request context dies with the upgrade, so detach.
	go h.publisher.Publish(context.Background(), tournamentID)
}
