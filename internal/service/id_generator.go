package service

import "github.com/google/uuid"

const maxIDAttempts = 8

// IDGenerator produces candidate record identifiers. Uniqueness within a
// collection is enforced by the entity store, not by the generator.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random version 4 UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator returns the default identifier source.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
