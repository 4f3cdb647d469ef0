package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers, e.g. for correlating requests.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator returns random (version 4) UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return value.String(), nil
}

// IsValid reports whether an externally supplied id is safe to echo back.
func IsValid(raw string) bool {
	if raw == "" || len(raw) > 128 {
		return false
	}
	return strings.IndexFunc(raw, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '_' || r == '.':
			return false
		default:
			return true
		}
	}) < 0
}
