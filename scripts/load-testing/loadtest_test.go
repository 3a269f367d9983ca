package main

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCartIsValidInput(t *testing.T) {
	cfg := &LoadTestConfig{VariantCount: 3, MaxLines: 4, MaxQuantity: 2}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		input := randomCart(rng, cfg)
		inv, err := input.ToInvocation()
		require.NoError(t, err)
		assert.Nil(t, inv.Configuration)
		assert.NotEmpty(t, inv.Cart.Lines)
		assert.LessOrEqual(t, len(inv.Cart.Lines), 4)
	}
}

func TestCalculatePercentile(t *testing.T) {
	assert.Equal(t, time.Duration(0), calculatePercentile(nil, 50))

	durations := []time.Duration{5, 1, 4, 2, 3}
	assert.Equal(t, time.Duration(3), calculatePercentile(durations, 50))
	assert.Equal(t, time.Duration(5), calculatePercentile(durations, 99))
	assert.Equal(t, []time.Duration{5, 1, 4, 2, 3}, durations)
}

func TestValidateCartDetectsBlockedCart(t *testing.T) {
	blocked := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, functionPath, r.URL.Path)
		if blocked {
			w.Write([]byte(`{"operations":[{"validationAdd":{"errors":[{"message":"m","target":"cart"}]}}]}`))
			return
		}
		w.Write([]byte(`{"operations":[{"validationAdd":{"errors":[]}}]}`))
	}))
	defer srv.Close()

	cfg := &LoadTestConfig{BaseURL: srv.URL, VariantCount: 1, MaxLines: 1, MaxQuantity: 1}
	lt := NewLoadTester(cfg)
	input := randomCart(rand.New(rand.NewSource(1)), cfg)

	got, err := lt.validateCart(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, got)

	blocked = false
	got, err = lt.validateCart(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCalculateMetricsRates(t *testing.T) {
	lt := NewLoadTester(&LoadTestConfig{})
	lt.recordResponse(10*time.Millisecond, true, nil)
	lt.recordResponse(20*time.Millisecond, false, nil)
	lt.recordResponse(30*time.Millisecond, false, assert.AnError)
	lt.recordResponse(40*time.Millisecond, false, nil)

	start := time.Now()
	metrics := lt.calculateMetrics(start, start.Add(2*time.Second))

	assert.InDelta(t, 2.0, metrics.ThroughputRPS, 0.001)
	assert.InDelta(t, 25.0, metrics.ErrorRate, 0.001)
	assert.InDelta(t, 100.0/3, metrics.BlockedRate, 0.001)
	assert.Equal(t, int64(1), metrics.Errors[assert.AnError.Error()])
}
