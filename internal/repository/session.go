package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

// Session is one browser's game. Engine access goes through Do, which serializes moves.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *tictactoe.GameEngine
	lastSeen time.Time
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		engine:   tictactoe.NewGameEngine(),
		lastSeen: now,
	}
}

// Do - runs fn with exclusive access to the engine and marks the session as active.
func (that *Session) Do(now time.Time, fn func(engine *tictactoe.GameEngine)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastSeen = now
	fn(that.engine)
}

func (that *Session) LastSeen() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastSeen
}

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

type memorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRepository() SessionRepository {
	return &memorySessions{
		sessions: make(map[string]*Session),
	}
}

func (that *memorySessions) CreateOrUpdate(ctx context.Context, session *Session) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if session == nil || session.ID == "" {
		return apperror.ErrSessionRequired
	}

	that.mu.Lock()
	that.sessions[session.ID] = session
	that.mu.Unlock()

	return nil
}

func (that *memorySessions) GetByID(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	that.mu.RLock()
	session, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *memorySessions) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

// DeleteExpired - drops sessions not seen since before, returns how many were removed.
func (that *memorySessions) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, session := range that.sessions {
		if session.LastSeen().Before(before) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed, nil
}
