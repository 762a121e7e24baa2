package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const sessionCookie = "user_session"

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*usecase.GameView, error)
	StartGame(ctx context.Context, sessionID string) (*usecase.GameView, error)
	SetPlayers(ctx context.Context, sessionID, nameX, nameO string) (*usecase.GameView, error)
	MakeTurn(ctx context.Context, sessionID string, cell any) (*usecase.GameView, error)
	EndSession(ctx context.Context, sessionID string) error
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

// client is one upgraded connection bound to a game session.
// Data frames are written only by the read loop of the connection.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameStart] = server.handleGameStart
	server.handlers[actionGamePlayers] = server.handleGamePlayers
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler - routes for the WebSocket endpoint, bound to ctx for the lifetime of each connection.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	var sessionID string
	if cookie, err := req.Cookie(sessionCookie); err == nil {
		sessionID = cookie.Value
	}

	view, err := that.game.Connect(ctx, sessionID)
	if err != nil {
		log.Error("failed to connect session", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header := http.Header{}
	if view.SessionID != sessionID {
		cookie := &http.Cookie{
			Name:     sessionCookie,
			Value:    view.SessionID,
			Expires:  time.Now().Add(24 * time.Hour),
			Path:     "/",
			HttpOnly: true,
		}
		header.Add("Set-Cookie", cookie.String())
		log.Info("session cookie not found, new one created", "sessionID", view.SessionID)
	}

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "sessionID", view.SessionID)

	c := &client{conn: conn, sessionID: view.SessionID}

	stop := context.AfterFunc(ctx, func() {
		c.close("server shutting down")
		_ = conn.Close()
	})
	defer stop()

	if err = that.handleMessages(ctx, c); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages", "sessionID", c.sessionID)

	for {
		_, body, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			log.Info("client disconnected")
			return nil
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = c.sendErrorResponse(actionError, "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = c.sendErrorResponse(message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
