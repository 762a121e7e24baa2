package terminal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

func newTestGame() (*Game, *tictactoe.GameEngine, *bytes.Buffer) {
	var out bytes.Buffer

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := tictactoe.NewGameEngine()
	renderer := NewRenderer(&out, false, termenv.WithProfile(termenv.Ascii))

	return NewGame(logger, engine, renderer), engine, &out
}

func TestGame_Run(t *testing.T) {
	t.Run("plays to a win", func(t *testing.T) {
		game, engine, out := newTestGame()

		// When: X fills the top row
		err := game.Run(context.Background(), strings.NewReader("0\n3\n1\n4\n2\n"))

		// Then: input ends cleanly and the win is shown
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Player X wins!")
		assert.Contains(t, out.String(), " X | X | X \n")
		assert.True(t, engine.IsOver())
	})

	t.Run("rejected input keeps the game going", func(t *testing.T) {
		game, engine, out := newTestGame()

		err := game.Run(context.Background(), strings.NewReader("abc\n4\n4\n9\n"))
		require.NoError(t, err)

		assert.Equal(t, 2, strings.Count(out.String(), "Please provide valid input (a number between 0-8)"))
		assert.Contains(t, out.String(), "Sorry this spot is already taken. Try again.")
		assert.Equal(t, 1, engine.State().TurnCount)
	})

	t.Run("quit stops reading", func(t *testing.T) {
		game, engine, out := newTestGame()

		err := game.Run(context.Background(), strings.NewReader("Q\n0\n"))
		require.NoError(t, err)

		assert.Contains(t, out.String(), "Bye!")
		assert.Equal(t, 0, engine.State().TurnCount)
	})

	t.Run("restart clears the board", func(t *testing.T) {
		game, engine, _ := newTestGame()

		err := game.Run(context.Background(), strings.NewReader("0\n1\nr\n"))
		require.NoError(t, err)

		state := engine.State()
		assert.Equal(t, [entity.BoardSize]entity.Marker{}, state.Board)
		assert.Equal(t, entity.MarkerX, state.Current.Marker)
	})

	t.Run("rename applies name rules and restarts", func(t *testing.T) {
		game, engine, out := newTestGame()

		// Given: a move already played
		// When: players are renamed, O left blank
		err := game.Run(context.Background(), strings.NewReader("4\nn\nBartholomew Montgomeryyy\n   \n"))
		require.NoError(t, err)

		// Then: names follow the rules and the board is fresh
		state := engine.State()
		assert.Equal(t, "Bartholomew Montgo...", state.PlayerX.Name)
		assert.Equal(t, "Player O", state.PlayerO.Name)
		assert.Equal(t, 0, state.TurnCount)
		assert.Contains(t, out.String(), "Name for Player X: ")
		assert.Contains(t, out.String(), "Current Turn: Bartholomew Montgo...")
	})

	t.Run("stops when context is done", func(t *testing.T) {
		game, _, _ := newTestGame()

		reader, writer := io.Pipe()
		t.Cleanup(func() { _ = writer.Close() })

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- game.Run(ctx, reader) }()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("game did not stop")
		}
	})
}
