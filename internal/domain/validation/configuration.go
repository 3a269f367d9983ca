package validation

import "math"

// Unbounded is the limit applied to variants without a configured limit.
const Unbounded = math.MaxInt

type Configuration struct {
	Limits map[string]int
}

func NewConfiguration(limits map[string]int) *Configuration {
	copied := make(map[string]int, len(limits))
	for id, limit := range limits {
		copied[id] = limit
	}
	return &Configuration{Limits: copied}
}

func (c *Configuration) LimitFor(variantID string) int {
	if limit, ok := c.Limits[variantID]; ok {
		return limit
	}
	return Unbounded
}
