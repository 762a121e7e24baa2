package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

var (
	downDiagonal = [entity.LineSize]int{0, 4, 8}
	upDiagonal   = [entity.LineSize]int{2, 4, 6}
)

// GameEngine drives turn order and win/tie detection for one board.
// It is not safe for concurrent use; callers serialize access per game.
type GameEngine struct {
	board *entity.Board

	playerX entity.Player
	playerO entity.Player

	current   entity.Marker
	turnCount int
	gameOver  bool
	winner    *entity.Player
}

// NewGameEngine - creates an engine with default players and a fresh game.
func NewGameEngine() *GameEngine {
	engine := &GameEngine{
		board:   entity.NewBoard(),
		playerX: entity.DefaultPlayer(entity.MarkerX),
		playerO: entity.DefaultPlayer(entity.MarkerO),
	}

	engine.StartGame()

	return engine
}

// SetPlayers - replaces both players. The turn stays with whichever marker held it.
// The board is left as is; callers start a new game afterwards.
func (that *GameEngine) SetPlayers(playerX, playerO entity.Player) error {
	if playerX.Marker != entity.MarkerX || playerO.Marker != entity.MarkerO {
		return fmt.Errorf("%w: got %q and %q", apperror.ErrMarkerMismatch, playerX.Marker, playerO.Marker)
	}

	that.playerX = playerX
	that.playerO = playerO

	return nil
}

// StartGame - clears the board and gives the first turn to X.
func (that *GameEngine) StartGame() entity.GameState {
	that.board.Reset()
	that.current = entity.MarkerX
	that.turnCount = 0
	that.gameOver = false
	that.winner = nil

	return that.State()
}

// ApplyMove - validates raw input and plays it for the current player.
// Rejected moves leave the state untouched.
func (that *GameEngine) ApplyMove(raw any) entity.MoveOutcome {
	index, err := ParseCellIndex(raw)
	if err != nil {
		return entity.MoveOutcome{Kind: entity.OutcomeInvalidInput, Index: entity.NoCell}
	}

	if that.gameOver {
		return entity.MoveOutcome{Kind: entity.OutcomeIgnored, Index: index}
	}

	cell, err := that.board.Cell(index)
	if err != nil {
		return entity.MoveOutcome{Kind: entity.OutcomeInvalidInput, Index: entity.NoCell}
	}

	if cell != entity.Empty {
		return entity.MoveOutcome{Kind: entity.OutcomeCellTaken, Index: index, Marker: cell}
	}

	player := that.playerFor(that.current)
	if err = that.board.SetCell(index, player.Marker); err != nil {
		return entity.MoveOutcome{Kind: entity.OutcomeInvalidInput, Index: entity.NoCell}
	}

	// tie is checked only after the win, the last free cell can still win
	previousTurns := that.turnCount
	that.turnCount++

	if line, ok := that.checkWin(player.Marker, index); ok {
		loser := that.playerFor(player.Marker.Opponent())
		that.gameOver = true
		that.winner = &player

		return entity.MoveOutcome{
			Kind:   entity.OutcomeWin,
			Index:  index,
			Marker: player.Marker,
			Winner: &player,
			Loser:  &loser,
			Line:   line,
		}
	}

	if previousTurns >= entity.BoardSize-1 {
		that.gameOver = true

		return entity.MoveOutcome{Kind: entity.OutcomeTie, Index: index, Marker: player.Marker}
	}

	that.current = that.current.Opponent()
	next := that.playerFor(that.current)

	return entity.MoveOutcome{
		Kind:   entity.OutcomeContinue,
		Index:  index,
		Marker: player.Marker,
		Next:   &next,
	}
}

// State - snapshot for rendering.
func (that *GameEngine) State() entity.GameState {
	state := entity.GameState{
		Board:     that.board.Cells(),
		PlayerX:   that.playerX,
		PlayerO:   that.playerO,
		Current:   that.playerFor(that.current),
		TurnCount: that.turnCount,
		GameOver:  that.gameOver,
	}

	if that.winner != nil {
		winner := *that.winner
		state.Winner = &winner
	}

	return state
}

func (that *GameEngine) CurrentPlayer() entity.Player {
	return that.playerFor(that.current)
}

func (that *GameEngine) IsOver() bool {
	return that.gameOver
}

func (that *GameEngine) playerFor(marker entity.Marker) entity.Player {
	if marker == entity.MarkerO {
		return that.playerO
	}

	return that.playerX
}

// checkWin - inspects only the lines running through the played cell.
func (that *GameEngine) checkWin(marker entity.Marker, index int) ([]int, bool) {
	row := index / entity.LineSize
	column := index % entity.LineSize

	var rowLine, columnLine [entity.LineSize]int
	for i := 0; i < entity.LineSize; i++ {
		rowLine[i] = row*entity.LineSize + i
		columnLine[i] = i*entity.LineSize + column
	}

	if that.lineHeldBy(marker, rowLine) {
		return rowLine[:], true
	}

	if that.lineHeldBy(marker, columnLine) {
		return columnLine[:], true
	}

	if index%4 == 0 && that.lineHeldBy(marker, downDiagonal) {
		line := downDiagonal
		return line[:], true
	}

	if index%2 == 0 && index >= 2 && index <= 6 && that.lineHeldBy(marker, upDiagonal) {
		line := upDiagonal
		return line[:], true
	}

	return nil, false
}

func (that *GameEngine) lineHeldBy(marker entity.Marker, line [entity.LineSize]int) bool {
	for _, index := range line {
		cell, err := that.board.Cell(index)
		if err != nil || cell != marker {
			return false
		}
	}

	return true
}
