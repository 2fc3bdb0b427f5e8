package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/state"
)

// Session describes the game served by this process.
type Session struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// TickRateMillis is the time between two ticks in milliseconds
	TickRateMillis int64  `json:"tickRateMillis"`
	Version        string `json:"version"`
}

// DirectionRequest is the body of a direction change request.
type DirectionRequest struct {
	Direction gametypes.Direction `json:"direction"`
}

func HandleGetSession(session Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, session)
	}
}

func HandleGetState(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := stateManager.Get(r.Context())
		if err != nil {
			if errors.Is(err, state.ErrNoState) {
				http.Error(w, "Game has not started", http.StatusServiceUnavailable)
				return
			}
			log.Error("failed to get state: %v", err)
			http.Error(w, "Failed to get state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func HandlePostDirection(buffer *input.Buffer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &DirectionRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			log.Debug("failed to decode direction request: %v", err)
			http.Error(w, "Invalid direction", http.StatusBadRequest)
			return
		}
		buffer.Set(req.Direction)
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
