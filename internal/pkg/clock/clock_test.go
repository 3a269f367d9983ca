package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(90 * time.Second)

	assert.Equal(t, start.Add(90*time.Second), c.Now())
	assert.Equal(t, 90*time.Second, c.Since(start))
}

func TestRealClockIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NewRealClock().Now().Location())
}
