package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/repository"
)

const knownSessionID = "9b2d3c6e-5f0a-4f49-9d7e-3c1f3a8e2b11"

var (
	errRepoDown = errors.New("repository down")
	fixedNow    = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
)

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *repository.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*repository.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*repository.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func (that *mockSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	args := that.Called(ctx, before)
	return args.Int(0), args.Error(1)
}

func newTestUseCase(repo sessionRepo, ttl time.Duration) *gameUseCase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	useCase, _ := NewGameUseCase(logger, repo, ttl).(*gameUseCase)
	useCase.now = func() time.Time { return fixedNow }

	return useCase
}

func TestGameUseCase_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new session when ID is empty", func(t *testing.T) {
		// Given: a repository that knows no sessions
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*repository.Session")).Return(nil).Once()
		useCase := newTestUseCase(repo, time.Hour)

		// When: Connect is called without a session ID
		view, err := useCase.Connect(ctx, "")

		// Then: a fresh game is returned under a generated ID
		require.NoError(t, err)
		assert.NotEmpty(t, view.SessionID)
		assert.Equal(t, "Current Turn: Player X", view.Message)
		assert.Equal(t, 0, view.State.TurnCount)
		repo.AssertExpectations(t)
	})

	t.Run("Keeps a well-formed unknown ID", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(session *repository.Session) bool {
			return session.ID == knownSessionID
		})).Return(nil).Once()
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.Connect(ctx, knownSessionID)

		require.NoError(t, err)
		assert.Equal(t, knownSessionID, view.SessionID)
		repo.AssertExpectations(t)
	})

	t.Run("Replaces a malformed ID", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(nil).Once()
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.Connect(ctx, "../../etc/passwd")

		require.NoError(t, err)
		assert.NotEqual(t, "../../etc/passwd", view.SessionID)
	})

	t.Run("Returns existing session", func(t *testing.T) {
		// Given: a stored session where X already played
		session := repository.NewSession(knownSessionID, fixedNow)
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(session, nil)
		useCase := newTestUseCase(repo, time.Hour)
		_, err := useCase.MakeTurn(ctx, knownSessionID, 4)
		require.NoError(t, err)

		// When: the same browser reconnects
		view, err := useCase.Connect(ctx, knownSessionID)

		// Then: the game in progress is returned
		require.NoError(t, err)
		assert.Equal(t, entity.MarkerX, view.State.Board[4])
		assert.Equal(t, "Current Turn: Player O", view.Message)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns error if repository fails", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(nil, errRepoDown).Once()
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.Connect(ctx, knownSessionID)

		require.ErrorIs(t, err, errRepoDown)
		assert.Nil(t, view)
	})

	t.Run("Returns error if session cannot be saved", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRepoDown).Once()
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.Connect(ctx, knownSessionID)

		require.ErrorIs(t, err, errRepoDown)
		assert.Nil(t, view)
	})
}

func TestGameUseCase_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays a full game to a win", func(t *testing.T) {
		// Given: a session with named players
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(repository.NewSession(knownSessionID, fixedNow), nil)
		useCase := newTestUseCase(repo, time.Hour)
		_, err := useCase.SetPlayers(ctx, knownSessionID, "Alice", "Bob")
		require.NoError(t, err)

		// When: X takes the top row
		var view *GameView
		for _, cell := range []any{"0", 3, "1", 4, "2"} {
			view, err = useCase.MakeTurn(ctx, knownSessionID, cell)
			require.NoError(t, err)
		}

		// Then: Alice wins
		require.NotNil(t, view.Outcome)
		assert.Equal(t, entity.OutcomeWin, view.Outcome.Kind)
		assert.Equal(t, "Alice wins!", view.Message)
		assert.True(t, view.State.GameOver)
	})

	t.Run("Rejected move is an outcome, not an error", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(repository.NewSession(knownSessionID, fixedNow), nil)
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.MakeTurn(ctx, knownSessionID, "abc")

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeInvalidInput, view.Outcome.Kind)
		assert.Equal(t, "Please provide valid input (a number between 0-8)", view.Message)
		assert.Equal(t, 0, view.State.TurnCount)
	})

	t.Run("Returns error for unknown session", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, knownSessionID).Return(nil, apperror.ErrSessionNotFound)
		useCase := newTestUseCase(repo, time.Hour)

		view, err := useCase.MakeTurn(ctx, knownSessionID, 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, view)
	})

	t.Run("Returns error for empty session", func(t *testing.T) {
		useCase := newTestUseCase(&mockSessionRepo{}, time.Hour)

		_, err := useCase.MakeTurn(ctx, "", 0)

		require.ErrorIs(t, err, apperror.ErrSessionRequired)
	})
}

func TestGameUseCase_SetPlayers(t *testing.T) {
	// Given: a game in progress
	ctx := context.Background()
	repo := &mockSessionRepo{}
	repo.On("GetByID", mock.Anything, knownSessionID).Return(repository.NewSession(knownSessionID, fixedNow), nil)
	useCase := newTestUseCase(repo, time.Hour)
	_, err := useCase.MakeTurn(ctx, knownSessionID, 0)
	require.NoError(t, err)

	// When: names are changed, one blank and one too long
	view, err := useCase.SetPlayers(ctx, knownSessionID, "  ", "Maximilian Alexander the Third")

	// Then: names follow the display rules and a new game begins with X
	require.NoError(t, err)
	assert.Equal(t, "Player X", view.State.PlayerX.Name)
	assert.Equal(t, "Maximilian Alexand...", view.State.PlayerO.Name)
	assert.Equal(t, [entity.BoardSize]entity.Marker{}, view.State.Board)
	assert.Equal(t, entity.MarkerX, view.State.Current.Marker)
	assert.Equal(t, "Current Turn: Player X", view.Message)
}

func TestGameUseCase_StartGame(t *testing.T) {
	ctx := context.Background()
	repo := &mockSessionRepo{}
	repo.On("GetByID", mock.Anything, knownSessionID).Return(repository.NewSession(knownSessionID, fixedNow), nil)
	useCase := newTestUseCase(repo, time.Hour)

	for _, cell := range []int{0, 1, 4, 2, 8} {
		_, err := useCase.MakeTurn(ctx, knownSessionID, cell)
		require.NoError(t, err)
	}

	view, err := useCase.StartGame(ctx, knownSessionID)

	require.NoError(t, err)
	assert.False(t, view.State.GameOver)
	assert.Equal(t, 0, view.State.TurnCount)
	assert.Nil(t, view.Outcome)
}

func TestGameUseCase_EndSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the session", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("DeleteByID", mock.Anything, knownSessionID).Return(nil).Once()
		useCase := newTestUseCase(repo, time.Hour)

		require.NoError(t, useCase.EndSession(ctx, knownSessionID))
		repo.AssertExpectations(t)
	})

	t.Run("Wraps repository errors", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("DeleteByID", mock.Anything, knownSessionID).Return(apperror.ErrSessionNotFound).Once()
		useCase := newTestUseCase(repo, time.Hour)

		require.ErrorIs(t, useCase.EndSession(ctx, knownSessionID), apperror.ErrSessionNotFound)
	})
}

func TestGameUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes sessions idle longer than TTL", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("DeleteExpired", mock.Anything, fixedNow.Add(-time.Hour)).Return(2, nil).Once()
		useCase := newTestUseCase(repo, time.Hour)

		removed, err := useCase.CleanupExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		repo.AssertExpectations(t)
	})

	t.Run("Disabled when TTL is zero", func(t *testing.T) {
		repo := &mockSessionRepo{}
		useCase := newTestUseCase(repo, 0)

		removed, err := useCase.CleanupExpired(ctx)

		require.NoError(t, err)
		assert.Zero(t, removed)
		repo.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("Works against the in-memory repository", func(t *testing.T) {
		repo := repository.NewSessionRepository()
		require.NoError(t, repo.CreateOrUpdate(ctx, repository.NewSession(knownSessionID, fixedNow.Add(-2*time.Hour))))
		useCase := newTestUseCase(repo, time.Hour)

		removed, err := useCase.CleanupExpired(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}
