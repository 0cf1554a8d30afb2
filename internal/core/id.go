package core

import "github.com/google/uuid"

// NewID generates a unique document identifier.
func NewID() string {
	return uuid.NewString()
}
