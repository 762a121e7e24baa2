package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
)

// Marker is the content of a board cell.
type Marker string

const (
	Empty   Marker = ""
	MarkerX Marker = "X"
	MarkerO Marker = "O"
)

const (
	BoardSize = 9
	LineSize  = 3
)

// Opponent returns the other player's marker. Empty has no opponent.
func (that Marker) Opponent() Marker {
	switch that {
	case MarkerX:
		return MarkerO
	case MarkerO:
		return MarkerX
	default:
		return Empty
	}
}

func (that Marker) IsPlayer() bool {
	return that == MarkerX || that == MarkerO
}

// Board holds the 3x3 grid in row-major order.
type Board struct {
	cells [BoardSize]Marker
}

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) Cell(index int) (Marker, error) {
	if err := checkIndex(index); err != nil {
		return Empty, err
	}

	return that.cells[index], nil
}

// SetCell - overwrites the cell, occupancy is the caller's concern.
func (that *Board) SetCell(index int, marker Marker) error {
	if err := checkIndex(index); err != nil {
		return err
	}

	that.cells[index] = marker

	return nil
}

func (that *Board) Reset() {
	that.cells = [BoardSize]Marker{}
}

// Cells returns a copy of the grid for rendering.
func (that *Board) Cells() [BoardSize]Marker {
	return that.cells
}

func checkIndex(index int) error {
	if index < 0 || index >= BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrIndexOutOfRange, index)
	}

	return nil
}
