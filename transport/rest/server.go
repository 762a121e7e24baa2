package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*usecase.GameView, error)
	StartGame(ctx context.Context, sessionID string) (*usecase.GameView, error)
	SetPlayers(ctx context.Context, sessionID, nameX, nameO string) (*usecase.GameView, error)
	MakeTurn(ctx context.Context, sessionID string, cell any) (*usecase.GameView, error)
}

type Server struct {
	logger *slog.Logger
	game   gameUseCase
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("GET /api/game", that.handleGetGame)
	mux.HandleFunc("POST /api/game/start", that.handleStartGame)
	mux.HandleFunc("POST /api/game/players", that.handleSetPlayers)
	mux.HandleFunc("POST /api/game/turn", that.handleMakeTurn)

	return mux
}

// Start - starts HTTP server, stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
