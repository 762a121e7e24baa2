package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

// GameView is what a presentation needs to render after any call.
type GameView struct {
	SessionID string              `json:"session_id"`
	State     entity.GameState    `json:"state"`
	Outcome   *entity.MoveOutcome `json:"outcome,omitempty"`
	Message   string              `json:"message"`
}

type GameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*GameView, error)
	GetState(ctx context.Context, sessionID string) (*GameView, error)

	StartGame(ctx context.Context, sessionID string) (*GameView, error)
	SetPlayers(ctx context.Context, sessionID, nameX, nameO string) (*GameView, error)
	MakeTurn(ctx context.Context, sessionID string, cell any) (*GameView, error)

	EndSession(ctx context.Context, sessionID string) error
	CleanupExpired(ctx context.Context) (int, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *repository.Session) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

type gameUseCase struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	sessionTTL  time.Duration

	now func() time.Time
}

func NewGameUseCase(logger *slog.Logger, sessionRepo sessionRepo, sessionTTL time.Duration) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "game"),
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// Connect - returns the session's game, creating a session when the ID is unknown or malformed.
func (that *gameUseCase) Connect(ctx context.Context, sessionID string) (*GameView, error) {
	log := that.logger.With("method", "Connect")

	if !pkg.IsSessionID(sessionID) {
		sessionID = pkg.GenerateNewSessionID()
	}

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		session = repository.NewSession(sessionID, that.now())
		if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		log.Info("new session created", "sessionID", sessionID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return that.stateView(session), nil
}

func (that *gameUseCase) GetState(ctx context.Context, sessionID string) (*GameView, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return that.stateView(session), nil
}

func (that *gameUseCase) StartGame(ctx context.Context, sessionID string) (*GameView, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var state entity.GameState
	session.Do(that.now(), func(engine *tictactoe.GameEngine) {
		state = engine.StartGame()
	})

	that.logger.Info("game started", "sessionID", sessionID)

	return &GameView{SessionID: sessionID, State: state, Message: state.Status()}, nil
}

// SetPlayers - renames both players and starts a fresh game for them.
func (that *gameUseCase) SetPlayers(ctx context.Context, sessionID, nameX, nameO string) (*GameView, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	playerX := entity.NewPlayer(entity.MarkerX, nameX)
	playerO := entity.NewPlayer(entity.MarkerO, nameO)

	var state entity.GameState
	session.Do(that.now(), func(engine *tictactoe.GameEngine) {
		if err = engine.SetPlayers(playerX, playerO); err != nil {
			return
		}
		state = engine.StartGame()
	})

	if err != nil {
		return nil, fmt.Errorf("failed to set players: %w", err)
	}

	that.logger.Info("players set", "sessionID", sessionID, "playerX", playerX.Name, "playerO", playerO.Name)

	return &GameView{SessionID: sessionID, State: state, Message: state.Status()}, nil
}

// MakeTurn - plays cell for whoever holds the turn. Rejected moves are outcomes, not errors.
func (that *gameUseCase) MakeTurn(ctx context.Context, sessionID string, cell any) (*GameView, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", sessionID)

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		outcome entity.MoveOutcome
		state   entity.GameState
	)
	session.Do(that.now(), func(engine *tictactoe.GameEngine) {
		outcome = engine.ApplyMove(cell)
		state = engine.State()
	})

	switch {
	case outcome.IsTerminal():
		log.Info("game finished", "outcome", outcome.Kind, "cell", outcome.Index)
	case outcome.Placed():
		log.Debug("turn made", "cell", outcome.Index, "marker", outcome.Marker)
	default:
		log.Debug("turn rejected", "outcome", outcome.Kind, "input", fmt.Sprint(cell))
	}

	return &GameView{
		SessionID: sessionID,
		State:     state,
		Outcome:   &outcome,
		Message:   outcome.Message(),
	}, nil
}

func (that *gameUseCase) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.ErrSessionRequired
	}

	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "sessionID", sessionID)

	return nil
}

// CleanupExpired - drops sessions idle for longer than the configured TTL.
func (that *gameUseCase) CleanupExpired(ctx context.Context) (int, error) {
	if that.sessionTTL <= 0 {
		return 0, nil
	}

	removed, err := that.sessionRepo.DeleteExpired(ctx, that.now().Add(-that.sessionTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}

	if removed > 0 {
		that.logger.Info("expired sessions removed", "count", removed)
	}

	return removed, nil
}

func (that *gameUseCase) getSession(ctx context.Context, sessionID string) (*repository.Session, error) {
	if sessionID == "" {
		return nil, apperror.ErrSessionRequired
	}

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) stateView(session *repository.Session) *GameView {
	var state entity.GameState
	session.Do(that.now(), func(engine *tictactoe.GameEngine) {
		state = engine.State()
	})

	return &GameView{SessionID: session.ID, State: state, Message: state.Status()}
}
