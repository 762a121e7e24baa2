package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const writeWait = 10 * time.Second

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	SessionID string            `json:"session_id,omitempty"`
	Cell      any               `json:"cell,omitempty"`
	Players   *PlayersPayload   `json:"players,omitempty"`
	Game      *usecase.GameView `json:"game,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type PlayersPayload struct {
	X string `json:"x"`
	O string `json:"o"`
}

func (that *client) sendMessage(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *client) sendErrorResponse(action, errorMsg string) error {
	if err := that.sendMessage(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func (that *client) close(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
