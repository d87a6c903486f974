package id

import "github.com/google/uuid"

// GenerateID returns a random RFC 4122 v4 identifier.
func GenerateID() string {
	return uuid.NewString()
}

// Valid reports whether s parses as an identifier produced by GenerateID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
