package apperror

import "errors"

var (
	ErrIndexOutOfRange = errors.New("cell index out of range")
	ErrInvalidInput    = errors.New("invalid move input")
	ErrMarkerMismatch  = errors.New("players must hold markers X and O")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRequired = errors.New("session id is required")
)
