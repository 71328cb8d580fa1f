package utils

import "github.com/google/uuid"

// NewRequestID returns a random id for correlating inbound requests in logs.
func NewRequestID() string {
	return uuid.NewString()
}
