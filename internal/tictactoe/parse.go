package tictactoe

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
)

// ParseCellIndex - turns untrusted move input into a board index.
// Accepts integer kinds, integral floats (JSON numbers) and decimal strings.
func ParseCellIndex(raw any) (int, error) {
	var index int64

	switch value := raw.(type) {
	case int:
		index = int64(value)
	case int8:
		index = int64(value)
	case int16:
		index = int64(value)
	case int32:
		index = int64(value)
	case int64:
		index = value
	case uint8:
		index = int64(value)
	case uint16:
		index = int64(value)
	case uint32:
		index = int64(value)
	case uint:
		if uint64(value) > math.MaxInt64 {
			return entity.NoCell, fmt.Errorf("%w: %d", apperror.ErrInvalidInput, value)
		}
		index = int64(value)
	case uint64:
		if value > math.MaxInt64 {
			return entity.NoCell, fmt.Errorf("%w: %d", apperror.ErrInvalidInput, value)
		}
		index = int64(value)
	case float64:
		if math.Trunc(value) != value || value < 0 || value >= entity.BoardSize {
			return entity.NoCell, fmt.Errorf("%w: %v", apperror.ErrInvalidInput, value)
		}
		index = int64(value)
	case json.Number:
		parsed, err := strconv.ParseInt(value.String(), 10, 64)
		if err != nil {
			return entity.NoCell, fmt.Errorf("%w: %q", apperror.ErrInvalidInput, value.String())
		}
		index = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return entity.NoCell, fmt.Errorf("%w: %q", apperror.ErrInvalidInput, value)
		}
		index = parsed
	default:
		return entity.NoCell, fmt.Errorf("%w: unsupported type %T", apperror.ErrInvalidInput, raw)
	}

	if index < 0 || index >= entity.BoardSize {
		return entity.NoCell, fmt.Errorf("%w: %d is outside 0-%d", apperror.ErrInvalidInput, index, entity.BoardSize-1)
	}

	return int(index), nil
}
