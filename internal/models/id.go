package models

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)

// NewID returns a 24-character lowercase hex identifier. The format matches
// the object-id contract exposed on every route path parameter.
func NewID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic("models: id entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// ValidID reports whether id is a well-formed 24-character hex identifier.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}
