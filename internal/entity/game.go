package entity

import "fmt"

type OutcomeKind string

const (
	OutcomeContinue     OutcomeKind = "continue"
	OutcomeWin          OutcomeKind = "win"
	OutcomeTie          OutcomeKind = "tie"
	OutcomeInvalidInput OutcomeKind = "invalid_input"
	OutcomeCellTaken    OutcomeKind = "cell_taken"
	OutcomeIgnored      OutcomeKind = "ignored"
)

// NoCell marks an outcome whose input never resolved to a cell.
const NoCell = -1

const (
	msgInvalidInput = "Please provide valid input (a number between 0-8)"
	msgCellTaken    = "Sorry this spot is already taken. Try again."
	msgIgnored      = "The game is over. Start a new game to play again."
	msgTie          = "It's a tie"
)

// MoveOutcome is what a single move attempt resolved to.
type MoveOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Index  int         `json:"index"`
	Marker Marker      `json:"marker,omitempty"`
	Winner *Player     `json:"winner,omitempty"`
	Loser  *Player     `json:"loser,omitempty"`
	Next   *Player     `json:"next,omitempty"`
	Line   []int       `json:"line,omitempty"`
}

// Placed reports whether the move put a marker on the board.
func (that MoveOutcome) Placed() bool {
	switch that.Kind {
	case OutcomeContinue, OutcomeWin, OutcomeTie:
		return true
	default:
		return false
	}
}

func (that MoveOutcome) IsTerminal() bool {
	return that.Kind == OutcomeWin || that.Kind == OutcomeTie
}

func (that MoveOutcome) Message() string {
	switch that.Kind {
	case OutcomeContinue:
		return turnMessage(that.Next)
	case OutcomeWin:
		return winMessage(that.Winner)
	case OutcomeTie:
		return msgTie
	case OutcomeInvalidInput:
		return msgInvalidInput
	case OutcomeCellTaken:
		return msgCellTaken
	case OutcomeIgnored:
		return msgIgnored
	default:
		return ""
	}
}

// GameState is a read-only snapshot of an engine.
type GameState struct {
	Board     [BoardSize]Marker `json:"board"`
	PlayerX   Player            `json:"player_x"`
	PlayerO   Player            `json:"player_o"`
	Current   Player            `json:"current"`
	TurnCount int               `json:"turn_count"`
	GameOver  bool              `json:"game_over"`
	Winner    *Player           `json:"winner,omitempty"`
}

func (that GameState) Status() string {
	switch {
	case !that.GameOver:
		return turnMessage(&that.Current)
	case that.Winner != nil:
		return winMessage(that.Winner)
	default:
		return msgTie
	}
}

func turnMessage(player *Player) string {
	if player == nil {
		return ""
	}

	return fmt.Sprintf("Current Turn: %s", player.Name)
}

func winMessage(player *Player) string {
	if player == nil {
		return ""
	}

	return fmt.Sprintf("%s wins!", player.Name)
}
