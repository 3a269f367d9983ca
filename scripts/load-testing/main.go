package main

import (
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	config := &LoadTestConfig{
		ConcurrentUsers:     100,
		TestDurationSeconds: 60,
		RampUpSeconds:       10,
		VariantCount:        50,
		MaxLines:            5,
		MaxQuantity:         10,
	}

	flag.StringVar(&config.BaseURL, "url", "http://localhost:8080", "service base URL")
	profile := flag.String("profile", "", "light, heavy or stress")
	flag.Parse()

	switch *profile {
	case "light":
		config.ConcurrentUsers = 50
		config.TestDurationSeconds = 30
	case "heavy":
		config.ConcurrentUsers = 500
		config.TestDurationSeconds = 300
	case "stress":
		config.ConcurrentUsers = 1000
		config.TestDurationSeconds = 600
	}

	fmt.Printf("Configuration:\n")
	fmt.Printf("- Base URL: %s\n", config.BaseURL)
	fmt.Printf("- Concurrent Users: %d\n", config.ConcurrentUsers)
	fmt.Printf("- Test Duration: %d seconds\n", config.TestDurationSeconds)
	fmt.Printf("- Variants: %d\n", config.VariantCount)
	fmt.Printf("\nStarting test...\n\n")

	metrics := NewLoadTester(config).Run()
	metrics.PrintReport()

	filename := fmt.Sprintf("load_test_results_%s.json", time.Now().Format("20060102_150405"))
	if err := metrics.SaveToFile(filename); err != nil {
		log.Printf("Failed to save results to file: %v", err)
	} else {
		fmt.Printf("Results saved to: %s\n", filename)
	}
}
