package pkg

import "github.com/google/uuid"

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// IsSessionID - reports whether id looks like an ID produced by GenerateNewSessionID.
func IsSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
