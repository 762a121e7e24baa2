package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const (
	actionConnect     = "connect"
	actionGameStart   = "game:start"
	actionGamePlayers = "game:players"
	actionGameTurn    = "game:turn"
	actionGameLeave   = "game:leave"
	actionError       = "error"
)

func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return c.sendErrorResponse(msg.Action, "malformed payload")
	}

	sessionID := c.sessionID
	if payloadReq.SessionID != "" {
		sessionID = payloadReq.SessionID
	}

	view, err := that.game.Connect(ctx, sessionID)
	if err != nil {
		log.Error("failed to connect session", "error", err)
		return c.sendErrorResponse(msg.Action, "failed to connect to the game")
	}

	c.sessionID = view.SessionID

	return that.sendGame(c, msg.Action, view)
}

func (that *Server) handleGameStart(ctx context.Context, c *client, msg *Message) error {
	view, err := that.game.StartGame(ctx, c.sessionID)
	if err != nil {
		return that.sendUseCaseError(c, msg.Action, err)
	}

	return that.sendGame(c, msg.Action, view)
}

func (that *Server) handleGamePlayers(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return c.sendErrorResponse(msg.Action, "malformed payload")
	}

	if payloadReq.Players == nil {
		return c.sendErrorResponse(msg.Action, "players are required")
	}

	view, err := that.game.SetPlayers(ctx, c.sessionID, payloadReq.Players.X, payloadReq.Players.O)
	if err != nil {
		return that.sendUseCaseError(c, msg.Action, err)
	}

	return that.sendGame(c, msg.Action, view)
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return c.sendErrorResponse(msg.Action, "malformed payload")
	}

	view, err := that.game.MakeTurn(ctx, c.sessionID, payloadReq.Cell)
	if err != nil {
		return that.sendUseCaseError(c, msg.Action, err)
	}

	return that.sendGame(c, msg.Action, view)
}

func (that *Server) handleGameLeave(ctx context.Context, c *client, msg *Message) error {
	if err := that.game.EndSession(ctx, c.sessionID); err != nil {
		return that.sendUseCaseError(c, msg.Action, err)
	}

	that.logger.Info("player left", "sessionID", c.sessionID)

	return c.sendMessage(msg.Action, Payload{SessionID: c.sessionID})
}

func (that *Server) sendGame(c *client, action string, view *usecase.GameView) error {
	if err := c.sendMessage(action, Payload{SessionID: view.SessionID, Game: view}); err != nil {
		return fmt.Errorf("failed to send game update: %w", err)
	}

	return nil
}

func (that *Server) sendUseCaseError(c *client, action string, err error) error {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return c.sendErrorResponse(action, "session not found, reconnect to start a new game")
	}

	that.logger.Error("use case failed", "action", action, "error", err)

	return c.sendErrorResponse(action, "internal error")
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
