package entity

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength = 18
	nameEllipsis  = "..."
)

type Player struct {
	Marker Marker `json:"marker"`
	Name   string `json:"name"`
}

// NewPlayer - builds a player with a display-ready name.
// Blank names fall back to "Player X"/"Player O", long names are clamped to MaxNameLength runes plus an ellipsis.
func NewPlayer(marker Marker, name string) Player {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPlayer(marker)
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength]) + nameEllipsis
	}

	return Player{
		Marker: marker,
		Name:   name,
	}
}

func DefaultPlayer(marker Marker) Player {
	return Player{
		Marker: marker,
		Name:   "Player " + string(marker),
	}
}
