package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const (
	sessionCookie = "user_session"
	maxBodySize   = 4 << 10
)

type playersRequest struct {
	X string `json:"x"`
	O string `json:"o"`
}

type turnRequest struct {
	Cell any `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, ok := that.connect(w, r)
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	session, ok := that.connect(w, r)
	if !ok {
		return
	}

	view, err := that.game.StartGame(r.Context(), session.SessionID)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleSetPlayers(w http.ResponseWriter, r *http.Request) {
	var req playersRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	session, ok := that.connect(w, r)
	if !ok {
		return
	}

	view, err := that.game.SetPlayers(r.Context(), session.SessionID, req.X, req.O)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// handleMakeTurn - rejected moves still answer 200, the outcome carries the reason.
func (that *Server) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	session, ok := that.connect(w, r)
	if !ok {
		return
	}

	view, err := that.game.MakeTurn(r.Context(), session.SessionID, req.Cell)
	if err != nil {
		that.writeUseCaseError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// connect - resolves the session cookie, issuing a new one when needed.
func (that *Server) connect(w http.ResponseWriter, r *http.Request) (*usecase.GameView, bool) {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessionID = cookie.Value
	}

	view, err := that.game.Connect(r.Context(), sessionID)
	if err != nil {
		that.writeUseCaseError(w, err)
		return nil, false
	}

	if view.SessionID != sessionID {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    view.SessionID,
			Expires:  time.Now().Add(24 * time.Hour),
			Path:     "/",
			HttpOnly: true,
		})
	}

	return view, true
}

func (that *Server) writeUseCaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}

	that.logger.Error("use case failed", "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	return json.NewDecoder(r.Body).Decode(dst)
}
