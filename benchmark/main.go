// Package main provides a performance benchmarking tool for the gridscope CLI.
// It measures execution times across synthetic series sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - gridscope binary installed and available in PATH
//
// Usage: go run benchmark/main.go [workers]
//
//	workers: Number of concurrent model fits for the parallel phase
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (serial average, cold run and average of warm parallel runs).
type BenchmarkResult struct {
	Rows       int
	Command    string
	SerialTime string
	ColdTime   string
	WarmTime   string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout      time.Duration
	Workers      int
	SerialRuns   int
	ParallelRuns int
	RowCounts    []int
	Commands     []string
}

func main() {
	workers := 4
	if len(os.Args) == 2 {
		w, err := strconv.Atoi(os.Args[1])
		if err != nil || w < 1 {
			fmt.Printf("Usage: %s [workers]\n", os.Args[0])
			os.Exit(1)
		}
		workers = w
	}

	config := BenchmarkConfig{
		Timeout:      5 * time.Minute,
		Workers:      workers,
		SerialRuns:   3,
		ParallelRuns: 4,
		RowCounts:    []int{720, 2160, 8760},
		Commands:     []string{"models", "cluster", "anomalies", "run"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the gridscope binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("gridscope"); err != nil {
		return fmt.Errorf("gridscope binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured series sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d workers, serial: %d runs, parallel: %d runs\n",
		len(config.RowCounts), config.Timeout, config.Workers, config.SerialRuns, config.ParallelRuns)

	for _, rows := range config.RowCounts {
		fmt.Printf("Benchmarking %d-row synthetic series\n", rows)

		for _, command := range config.Commands {
			result := runBenchmarkSuite(config, rows, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both serial and parallel benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, rows int, command string) BenchmarkResult {
	fmt.Printf("Running %s on %d rows\n", command, rows)

	// Helper to run a benchmark phase
	runPhase := func(workers, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, rows, command, workers, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: Serial runs
	_, serialAvg := runPhase(1, config.SerialRuns, "Serial")

	// Phase 2: Parallel runs
	coldTime, warmAvg := runPhase(config.Workers, config.ParallelRuns, "Parallel")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Serial average: %s, Cold time: %s, Warm average: %s\n", serialAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Rows:       rows,
		Command:    command,
		SerialTime: serialAvg,
		ColdTime:   coldTimeStr,
		WarmTime:   warmAvg,
	}
}

// runBenchmark executes a gridscope command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, rows int, command string, workers, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command,
		"--synthetic",
		"--rows", strconv.Itoa(rows),
		"--workers", strconv.Itoa(workers),
		"--store-backend", "none",
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("gridscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	switch command {
	case "run":
		completionPhrase = "Pipeline completed in"
	case "models":
		completionPhrase = "Training completed in"
	case "cluster":
		completionPhrase = "Silhouette score:"
	case "anomalies":
		completionPhrase = "Flagged"
	default:
		completionPhrase = "completed in"
	}

	return strings.Contains(outputStr, completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/gridscope_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"rows", "cmd", "serial_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		rec := []string{strconv.Itoa(result.Rows), result.Command, result.SerialTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "models", "Model Training:")
	printCommandSummary(results, "cluster", "Clustering:")
	printCommandSummary(results, "anomalies", "Anomaly Detection:")
	printCommandSummary(results, "run", "Full Pipeline:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %6d rows: Serial: %s, Cold: %s, Warm: %s\n", result.Rows, result.SerialTime, result.ColdTime, result.WarmTime)
		}
	}
}
