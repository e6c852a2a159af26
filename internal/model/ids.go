package model

import "github.com/google/uuid"

// NewID returns a globally unique id shared by apps and blocks.
func NewID() string {
	return uuid.NewString()
}
