package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hotseat/transport/websocket"
)

type sessionCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionRepo := repository.NewSessionRepository()
	gameUseCase := usecase.NewGameUseCase(logger, sessionRepo, conf.Session.TTL)

	go maintainSessions(ctx, log, gameUseCase, conf.Session.CleanupInterval)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameUseCase)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// maintainSessions - drops idle sessions every interval until ctx is done.
func maintainSessions(ctx context.Context, log *slog.Logger, cleaner sessionCleaner, interval time.Duration) {
	if interval <= 0 {
		log.Warn("session cleanup disabled", "interval", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := cleaner.CleanupExpired(ctx)
			if err != nil {
				log.Error("session cleanup failed", "error", err)
				continue
			}

			if removed > 0 {
				log.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
