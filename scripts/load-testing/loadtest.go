package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/yuzvak/product-limits/internal/infrastructure/function"
)

const functionPath = "/functions/cart-validations-generate-run"

type LoadTestConfig struct {
	BaseURL             string
	ConcurrentUsers     int
	TestDurationSeconds int
	RampUpSeconds       int
	VariantCount        int
	MaxLines            int
	MaxQuantity         int
}

type TestResult struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	BlockedCarts       int64
	AllowedCarts       int64
	ResponseTimes      []time.Duration
	Errors             map[string]int64
	mutex              sync.Mutex
}

type PerformanceMetrics struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalDuration   time.Duration
	ThroughputRPS   float64
	SuccessfulRPS   float64
	P50ResponseTime time.Duration
	P95ResponseTime time.Duration
	P99ResponseTime time.Duration
	ErrorRate       float64
	BlockedRate     float64
	Errors          map[string]int64
}

type LoadTester struct {
	config *LoadTestConfig
	result *TestResult
	client *http.Client
}

func NewLoadTester(config *LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		result: &TestResult{
			ResponseTimes: make([]time.Duration, 0),
			Errors:        make(map[string]int64),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        1000,
				MaxIdleConnsPerHost: 100,
				MaxConnsPerHost:     200,
			},
		},
	}
}

func variantID(n int) string {
	return fmt.Sprintf("gid://shopify/ProductVariant/%d", n)
}

// randomCart leaves the metafield out so the server resolves limits from its store.
func randomCart(rng *rand.Rand, cfg *LoadTestConfig) function.Input {
	lines := make([]function.CartLineInput, 0, cfg.MaxLines)
	for i := rng.Intn(cfg.MaxLines) + 1; i > 0; i-- {
		n := rng.Intn(cfg.VariantCount) + 1
		lines = append(lines, function.CartLineInput{
			Quantity: rng.Intn(cfg.MaxQuantity) + 1,
			Merchandise: function.MerchandiseInput{
				TypeName: function.TypeNameProductVariant,
				ID:       variantID(n),
				Product:  &function.ProductInput{Title: fmt.Sprintf("Product %d", n)},
			},
		})
	}
	return function.Input{Cart: function.CartInput{Lines: lines}}
}

func (lt *LoadTester) recordResponse(duration time.Duration, blocked bool, err error) {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	atomic.AddInt64(&lt.result.TotalRequests, 1)
	lt.result.ResponseTimes = append(lt.result.ResponseTimes, duration)

	if err != nil {
		atomic.AddInt64(&lt.result.FailedRequests, 1)
		lt.result.Errors[err.Error()]++
		return
	}

	atomic.AddInt64(&lt.result.SuccessfulRequests, 1)
	if blocked {
		lt.result.BlockedCarts++
	} else {
		lt.result.AllowedCarts++
	}
}

func (lt *LoadTester) simulateUser(ctx context.Context, userID int, wg *sync.WaitGroup) {
	defer wg.Done()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(userID)))
	for {
		select {
		case <-ctx.Done():
			return
		default:
			start := time.Now()
			blocked, err := lt.validateCart(ctx, randomCart(rng, lt.config))
			if ctx.Err() != nil {
				return
			}
			lt.recordResponse(time.Since(start), blocked, err)

			time.Sleep(time.Duration(rng.Intn(100)) * time.Millisecond)
		}
	}
}

func (lt *LoadTester) validateCart(ctx context.Context, input function.Input) (bool, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.config.BaseURL+functionPath, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := lt.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out function.Output
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("invalid response body")
	}

	for _, op := range out.Operations {
		if op.ValidationAdd != nil && len(op.ValidationAdd.Errors) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (lt *LoadTester) Run() *PerformanceMetrics {
	fmt.Printf("Starting load test with %d concurrent users for %d seconds\n",
		lt.config.ConcurrentUsers, lt.config.TestDurationSeconds)

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(lt.config.TestDurationSeconds)*time.Second)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nReceived interrupt signal, stopping test...")
			cancel()
		case <-ctx.Done():
		}
	}()

	startTime := time.Now()
	var wg sync.WaitGroup

	userInterval := time.Duration(lt.config.RampUpSeconds) * time.Second / time.Duration(lt.config.ConcurrentUsers)

	for i := 0; i < lt.config.ConcurrentUsers; i++ {
		wg.Add(1)
		go lt.simulateUser(ctx, i, &wg)

		if i < lt.config.ConcurrentUsers-1 {
			time.Sleep(userInterval)
		}
	}

	go lt.monitorProgress(ctx, startTime)

	wg.Wait()

	return lt.calculateMetrics(startTime, time.Now())
}

func (lt *LoadTester) monitorProgress(ctx context.Context, startTime time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(startTime)
			totalReqs := atomic.LoadInt64(&lt.result.TotalRequests)
			successReqs := atomic.LoadInt64(&lt.result.SuccessfulRequests)

			fmt.Printf("[%s] Total: %d, Success: %d, RPS: %.1f\n",
				elapsed.Round(time.Second), totalReqs, successReqs, float64(totalReqs)/elapsed.Seconds())
		}
	}
}

func (lt *LoadTester) calculateMetrics(startTime, endTime time.Time) *PerformanceMetrics {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	totalDuration := endTime.Sub(startTime)
	totalRequests := atomic.LoadInt64(&lt.result.TotalRequests)
	successfulRequests := atomic.LoadInt64(&lt.result.SuccessfulRequests)

	metrics := &PerformanceMetrics{
		StartTime:     startTime,
		EndTime:       endTime,
		TotalDuration: totalDuration,
		Errors:        lt.result.Errors,
	}

	if totalDuration.Seconds() > 0 {
		metrics.ThroughputRPS = float64(totalRequests) / totalDuration.Seconds()
		metrics.SuccessfulRPS = float64(successfulRequests) / totalDuration.Seconds()
	}

	if totalRequests > 0 {
		metrics.ErrorRate = float64(atomic.LoadInt64(&lt.result.FailedRequests)) / float64(totalRequests) * 100
	}

	if successfulRequests > 0 {
		metrics.BlockedRate = float64(lt.result.BlockedCarts) / float64(successfulRequests) * 100
	}

	metrics.P50ResponseTime = calculatePercentile(lt.result.ResponseTimes, 50)
	metrics.P95ResponseTime = calculatePercentile(lt.result.ResponseTimes, 95)
	metrics.P99ResponseTime = calculatePercentile(lt.result.ResponseTimes, 99)

	return metrics
}

func calculatePercentile(durations []time.Duration, percentile int) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := int(float64(len(sorted)) * float64(percentile) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

func (pm *PerformanceMetrics) PrintReport() {
	fmt.Printf("PERFORMANCE TEST RESULTS\n")
	fmt.Printf("Test Duration: %v\n", pm.TotalDuration.Round(time.Second))
	fmt.Printf("\n")

	fmt.Printf("THROUGHPUT METRICS:\n")
	fmt.Printf("- Total RPS: %.2f requests/second\n", pm.ThroughputRPS)
	fmt.Printf("- Successful RPS: %.2f requests/second\n", pm.SuccessfulRPS)
	fmt.Printf("- Error Rate: %.2f%%\n", pm.ErrorRate)
	fmt.Printf("\n")

	fmt.Printf("RESPONSE TIME METRICS:\n")
	fmt.Printf("- P50 Response Time: %v\n", pm.P50ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P95 Response Time: %v\n", pm.P95ResponseTime.Round(time.Millisecond))
	fmt.Printf("- P99 Response Time: %v\n", pm.P99ResponseTime.Round(time.Millisecond))
	fmt.Printf("\n")

	fmt.Printf("VALIDATION METRICS:\n")
	fmt.Printf("- Carts blocked by limits: %.2f%%\n", pm.BlockedRate)
	for msg, count := range pm.Errors {
		fmt.Printf("- %s: %d\n", msg, count)
	}
}

func (pm *PerformanceMetrics) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(pm, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
