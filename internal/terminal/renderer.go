package terminal

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

const (
	colorRed    = "1"
	colorGreen  = "2"
	colorYellow = "3"
	colorBlue   = "4"

	rowSeparator = "---+---+---"
	promptText   = "Cell (0-8), r - restart, n - rename, q - quit: "
)

// Renderer - draws the board and status lines on a terminal.
type Renderer struct {
	out   *termenv.Output
	clear bool
}

// NewRenderer - clear wipes the screen before every board.
func NewRenderer(w io.Writer, clear bool, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{
		out:   termenv.NewOutput(w, opts...),
		clear: clear,
	}
}

// Render - draws the whole board, then the players and the status line.
func (that *Renderer) Render(state entity.GameState, line []int, status string, kind entity.OutcomeKind) {
	if that.clear {
		that.out.ClearScreen()
	}

	var sb strings.Builder
	sb.WriteString("\n")

	for row := 0; row < entity.LineSize; row++ {
		cells := make([]string, 0, entity.LineSize)
		for col := 0; col < entity.LineSize; col++ {
			index := row*entity.LineSize + col
			cells = append(cells, " "+that.cell(index, state.Board[index], slices.Contains(line, index))+" ")
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")

		if row < entity.LineSize-1 {
			sb.WriteString(rowSeparator)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s (%s) vs %s (%s)\n",
		state.PlayerX.Name, that.marker(entity.MarkerX).String(),
		state.PlayerO.Name, that.marker(entity.MarkerO).String(),
	))
	sb.WriteString(that.status(status, kind))
	sb.WriteString("\n")

	that.write(sb.String())
}

func (that *Renderer) Prompt() {
	that.write(promptText)
}

func (that *Renderer) Ask(question string) {
	that.write(that.out.String(question).Bold().String())
}

func (that *Renderer) Notice(text string) {
	that.write(that.out.String(text).Faint().String() + "\n")
}

func (that *Renderer) cell(index int, marker entity.Marker, winning bool) string {
	if marker == entity.Empty {
		return that.out.String(strconv.Itoa(index)).Faint().String()
	}

	style := that.marker(marker)
	if winning {
		style = style.Background(that.out.Color(colorGreen)).Underline()
	}

	return style.String()
}

func (that *Renderer) marker(marker entity.Marker) termenv.Style {
	color := colorRed
	if marker == entity.MarkerO {
		color = colorBlue
	}

	return that.out.String(string(marker)).Foreground(that.out.Color(color)).Bold()
}

func (that *Renderer) status(text string, kind entity.OutcomeKind) string {
	style := that.out.String(text)

	switch kind {
	case entity.OutcomeWin:
		return style.Foreground(that.out.Color(colorGreen)).Bold().String()
	case entity.OutcomeTie:
		return style.Foreground(that.out.Color(colorYellow)).Bold().String()
	case entity.OutcomeInvalidInput, entity.OutcomeCellTaken, entity.OutcomeIgnored:
		return style.Foreground(that.out.Color(colorRed)).String()
	default:
		return style.String()
	}
}

func (that *Renderer) write(text string) {
	_, _ = io.WriteString(that.out, text)
}
