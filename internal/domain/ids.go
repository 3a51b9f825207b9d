package domain

import "github.com/google/uuid"

// NewID returns a random identifier for records created at runtime.
func NewID() string {
	return uuid.NewString()
}
