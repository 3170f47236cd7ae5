package utils

import "github.com/google/uuid"

// NewSessionID returns a random identifier used to correlate the log lines of
// one connection.
func NewSessionID() string {
	return uuid.NewString()
}
