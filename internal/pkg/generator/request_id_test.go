package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDGenerator(t *testing.T) {
	g := NewRequestIDGenerator()

	first := g.Generate()
	second := g.Generate()

	assert.NotEqual(t, first, second)
	assert.True(t, g.Valid(first))
	assert.False(t, g.Valid("not-a-uuid"))
	assert.False(t, g.Valid(""))
}
