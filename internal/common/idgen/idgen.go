package idgen

import "github.com/google/uuid"

type Generator interface {
	NewID() (uuid.UUID, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (uuid.UUID, error) {
	return uuid.NewRandom()
}
