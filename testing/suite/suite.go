package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/usecase"
)

const (
	maxWaitDuration = 30 * time.Second
	sessionTTL      = time.Hour
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Sessions repository.SessionRepository
	Games    usecase.GameUseCase
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sessions := repository.NewSessionRepository()

	return ctx, &Suite{
		T:        t,
		Logger:   logger,
		Sessions: sessions,
		Games:    usecase.NewGameUseCase(logger, sessions, sessionTTL),
	}
}
