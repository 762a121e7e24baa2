package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

const (
	cmdQuit    = "q"
	cmdRestart = "r"
	cmdRename  = "n"
)

type inputLine struct {
	text string
	err  error
}

// Game - a hot-seat session driven by line based input.
type Game struct {
	logger   *slog.Logger
	engine   *tictactoe.GameEngine
	renderer *Renderer
}

func NewGame(logger *slog.Logger, engine *tictactoe.GameEngine, renderer *Renderer) *Game {
	return &Game{
		logger:   logger.With("component", "terminal"),
		engine:   engine,
		renderer: renderer,
	}
}

// Run - plays until quit, end of input or ctx is done.
func (that *Game) Run(ctx context.Context, in io.Reader) error {
	lines := readLines(ctx, in)

	that.restart()

	for {
		that.renderer.Prompt()

		text, err := next(ctx, lines)
		if err != nil {
			return ignoreStop(err)
		}

		switch strings.ToLower(text) {
		case cmdQuit:
			that.renderer.Notice("Bye!")
			return nil
		case cmdRestart:
			that.restart()
		case cmdRename:
			if err = that.rename(ctx, lines); err != nil {
				return ignoreStop(err)
			}
		default:
			that.move(text)
		}
	}
}

func (that *Game) restart() {
	state := that.engine.StartGame()
	that.renderer.Render(state, nil, state.Status(), entity.OutcomeContinue)
}

func (that *Game) move(text string) {
	outcome := that.engine.ApplyMove(text)

	if outcome.IsTerminal() {
		that.logger.Info("game finished", "outcome", outcome.Kind, "index", outcome.Index)
	} else {
		that.logger.Debug("move handled", "outcome", outcome.Kind, "index", outcome.Index)
	}

	that.renderer.Render(that.engine.State(), outcome.Line, outcome.Message(), outcome.Kind)
}

// rename - asks both names, then starts a new game.
func (that *Game) rename(ctx context.Context, lines <-chan inputLine) error {
	names := make(map[entity.Marker]string, 2)

	for _, marker := range []entity.Marker{entity.MarkerX, entity.MarkerO} {
		that.renderer.Ask(fmt.Sprintf("Name for %s: ", entity.DefaultPlayer(marker).Name))

		text, err := next(ctx, lines)
		if err != nil {
			return err
		}

		names[marker] = text
	}

	playerX := entity.NewPlayer(entity.MarkerX, names[entity.MarkerX])
	playerO := entity.NewPlayer(entity.MarkerO, names[entity.MarkerO])

	if err := that.engine.SetPlayers(playerX, playerO); err != nil {
		return fmt.Errorf("failed to set players: %w", err)
	}

	that.logger.Info("players renamed", "player_x", playerX.Name, "player_o", playerO.Name)
	that.restart()

	return nil
}

func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: strings.TrimSpace(scanner.Text())}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return lines
}

func next(ctx context.Context, lines <-chan inputLine) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", io.EOF
		}

		return line.text, line.err
	}
}

func ignoreStop(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}

	return fmt.Errorf("failed to read input: %w", err)
}
