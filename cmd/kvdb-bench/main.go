package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"kvdb/pkg/jsonval"
	"kvdb/pkg/store"
)

type BenchmarkResult struct {
	TotalOps      int
	SuccessfulOps int
	FailedOps     int
	Duration      time.Duration
	OpsPerSec     float64
	AvgLatency    time.Duration
	MinLatency    time.Duration
	MaxLatency    time.Duration
}

func main() {
	var (
		ops         = flag.Int("n", 10_000, "operations per test")
		concurrency = flag.Int("c", 8, "goroutines for the concurrent tests")
		dir         = flag.String("dir", "", "directory for the persistence test (default: temp dir)")
	)
	flag.Parse()

	if *ops <= 0 || *concurrency <= 0 {
		fmt.Println("ERROR: -n and -c must be positive")
		os.Exit(2)
	}

	fmt.Println("=== KVDB Benchmark ===")
	fmt.Printf("Operations: %d, goroutines: %d\n\n", *ops, *concurrency)

	db := store.Create()
	defer db.Close()

	fmt.Printf("Test 1: Sequential Writes (%d operations)\n", *ops)
	printResult(benchmarkWrites(db, "seq", *ops, 1))

	fmt.Printf("\nTest 2: Sequential Reads (%d operations)\n", *ops)
	printResult(benchmarkReads(db, "seq", *ops, 1))

	fmt.Printf("\nTest 3: Concurrent Writes (%d operations, %d goroutines)\n", *ops, *concurrency)
	printResult(benchmarkWrites(db, "con", *ops, *concurrency))

	fmt.Printf("\nTest 4: Concurrent Reads (%d operations, %d goroutines)\n", *ops, *concurrency)
	printResult(benchmarkReads(db, "con", *ops, *concurrency))

	fmt.Println("\nTest 5: Write + Construct")
	if err := benchmarkPersistence(db, *dir); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== Benchmark Complete ===")
}

func benchKey(prefix string, i int) string {
	return fmt.Sprintf("%s_%d", prefix, i)
}

func benchmarkWrites(db *store.Database, prefix string, totalOps, concurrency int) BenchmarkResult {
	return run(totalOps, concurrency, func(i int) bool {
		v, err := jsonval.From(map[string]any{"n": i, "at": time.Now().UnixNano()})
		if err != nil {
			return false
		}
		_, err = db.Put(benchKey(prefix, i), v)
		return err == nil
	})
}

func benchmarkReads(db *store.Database, prefix string, totalOps, concurrency int) BenchmarkResult {
	return run(totalOps, concurrency, func(i int) bool {
		_, err := db.Get(benchKey(prefix, i))
		return err == nil
	})
}

// run splits ops [0, totalOps) across concurrency goroutines and times each call.
func run(totalOps, concurrency int, op func(i int) bool) BenchmarkResult {
	start := time.Now()
	var wg sync.WaitGroup
	var mu sync.Mutex

	successful := 0
	failed := 0
	latencies := make([]time.Duration, 0, totalOps)

	opsPerGoroutine := totalOps / concurrency
	remainder := totalOps % concurrency

	next := 0
	for g := 0; g < concurrency; g++ {
		n := opsPerGoroutine
		if g < remainder {
			n++
		}

		wg.Add(1)
		go func(from, n int) {
			defer wg.Done()

			for i := from; i < from+n; i++ {
				opStart := time.Now()
				ok := op(i)
				latency := time.Since(opStart)

				mu.Lock()
				if ok {
					successful++
				} else {
					failed++
				}
				latencies = append(latencies, latency)
				mu.Unlock()
			}
		}(next, n)

		next += n
	}

	wg.Wait()
	duration := time.Since(start)

	var min, max, sum time.Duration
	if len(latencies) > 0 {
		min = latencies[0]
		max = latencies[0]
		for _, lat := range latencies {
			if lat < min {
				min = lat
			}
			if lat > max {
				max = lat
			}
			sum += lat
		}
	}

	var avgLatency time.Duration
	if len(latencies) > 0 {
		avgLatency = sum / time.Duration(len(latencies))
	}

	return BenchmarkResult{
		TotalOps:      totalOps,
		SuccessfulOps: successful,
		FailedOps:     failed,
		Duration:      duration,
		OpsPerSec:     float64(successful) / duration.Seconds(),
		AvgLatency:    avgLatency,
		MinLatency:    min,
		MaxLatency:    max,
	}
}

func benchmarkPersistence(db *store.Database, dir string) error {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "kvdb-bench-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	path := filepath.Join(dir, "bench.db")

	start := time.Now()
	if err := db.Write(path); err != nil {
		return err
	}
	writeDur := time.Since(start)

	start = time.Now()
	loaded, err := store.Construct(path)
	if err != nil {
		return err
	}
	defer loaded.Close()
	loadDur := time.Since(start)

	st, err := os.Stat(path)
	if err != nil {
		return err
	}

	fmt.Printf("  Properties: %d\n", loaded.Len())
	fmt.Printf("  File size: %d bytes\n", st.Size())
	fmt.Printf("  Write: %v\n", writeDur)
	fmt.Printf("  Construct: %v\n", loadDur)

	if loaded.Len() != db.Len() {
		return fmt.Errorf("loaded %d properties, wrote %d", loaded.Len(), db.Len())
	}

	return nil
}

func printResult(result BenchmarkResult) {
	fmt.Printf("  Total Operations: %d\n", result.TotalOps)
	fmt.Printf("  Successful: %d\n", result.SuccessfulOps)
	fmt.Printf("  Failed: %d\n", result.FailedOps)
	fmt.Printf("  Duration: %v\n", result.Duration)
	fmt.Printf("  Operations/sec: %.2f\n", result.OpsPerSec)
	fmt.Printf("  Avg Latency: %v\n", result.AvgLatency)
	fmt.Printf("  Min Latency: %v\n", result.MinLatency)
	fmt.Printf("  Max Latency: %v\n", result.MaxLatency)
}
