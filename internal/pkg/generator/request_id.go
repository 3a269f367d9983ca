package generator

import (
	"github.com/google/uuid"
)

type RequestIDGenerator struct{}

func NewRequestIDGenerator() *RequestIDGenerator {
	return &RequestIDGenerator{}
}

func (g *RequestIDGenerator) Generate() string {
	return uuid.NewString()
}

// Valid accepts caller-supplied ids only when they parse as UUIDs.
func (g *RequestIDGenerator) Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
