package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/employee-api/pkg/domain"
	"github.com/adfharrison1/employee-api/pkg/logger"
)

var (
	departments  = []string{"Engineering", "Finance", "Marketing", "Operations", "Sales", "Support"}
	designations = []string{"Analyst", "Engineer", "Manager", "Director", "Associate", "Lead"}
)

// generateRandomName generates a random 6-letter capitalized name
func generateRandomName(rng *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rng.Intn(len(letters))]
	}
	name[0] = name[0] - 32
	return string(name)
}

func randomEmployee(rng *rand.Rand) domain.EmployeeFields {
	return domain.EmployeeFields{
		Name:        domain.String(generateRandomName(rng)),
		Department:  domain.String(departments[rng.Intn(len(departments))]),
		Designation: domain.String(designations[rng.Intn(len(designations))]),
		Salary:      domain.Float(float64(30000 + rng.Intn(150)*1000)),
	}
}

// insertEmployee sends a POST request creating one employee
func insertEmployee(ctx context.Context, client *http.Client, baseURL string, fields domain.EmployeeFields) (domain.Employee, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to marshal employee: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/employees", bytes.NewReader(body))
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Employee{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var created domain.Employee
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return domain.Employee{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return created, nil
}

func main() {
	var (
		count    = flag.Int("count", 100, "Number of employees to create")
		baseURL  = flag.String("url", "http://localhost:3001", "Employee API base URL")
		workers  = flag.Int("workers", 4, "Concurrent requests")
		timeout  = flag.Duration("timeout", 10*time.Second, "Per-request timeout")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log, closer, err := logger.Init(logger.Options{Level: *logLevel, Format: "text"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	if *count <= 0 || *workers <= 0 {
		log.Error().Msg("count and workers must be greater than 0")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats := seed(ctx, log, &http.Client{Timeout: *timeout}, strings.TrimRight(*baseURL, "/"), *count, *workers)
	stats.print(*count)

	if stats.errors.Load() > 0 {
		log.Warn().Int64("errors", stats.errors.Load()).Msg("Errors occurred during seeding")
		os.Exit(1)
	}
}

type seedStats struct {
	success atomic.Int64
	errors  atomic.Int64
	elapsed time.Duration
}

// seed creates count random employees using a fixed pool of workers
func seed(ctx context.Context, log zerolog.Logger, client *http.Client, baseURL string, count, workers int) *seedStats {
	log.Info().Int("count", count).Str("url", baseURL).Msg("Starting seed, press Ctrl+C to stop early")

	stats := &seedStats{}
	start := time.Now()
	reportInterval := max(1, count/10)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)))

			for i := range jobs {
				created, err := insertEmployee(ctx, client, baseURL, randomEmployee(rng))
				if err != nil {
					stats.errors.Add(1)
					log.Error().Err(err).Int("n", i+1).Msg("Error inserting employee")
				} else {
					stats.success.Add(1)
					log.Debug().Str("employee_id", created.ID).Msg("Inserted employee")
				}

				done := stats.success.Load() + stats.errors.Load()
				if done%int64(reportInterval) == 0 {
					rate := float64(done) / time.Since(start).Seconds()
					log.Info().Msgf("Progress: %d/%d employees (%.1f%%) - Rate: %.1f/sec", done, count, float64(done)/float64(count)*100, rate)
				}
			}
		}(w)
	}

loop:
	for i := 0; i < count; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break loop
		}
	}
	close(jobs)
	wg.Wait()

	stats.elapsed = time.Since(start)
	return stats
}

func (s *seedStats) print(attempted int) {
	success, errs := s.success.Load(), s.errors.Load()
	total := success + errs

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEED COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Employees requested:   %d\n", attempted)
	fmt.Printf("Successful inserts:    %d\n", success)
	fmt.Printf("Failed inserts:        %d\n", errs)
	if total > 0 {
		fmt.Printf("Success rate:          %.2f%%\n", float64(success)/float64(total)*100)
		fmt.Printf("Average rate:          %.2f employees/sec\n", float64(total)/s.elapsed.Seconds())
		fmt.Printf("Average time per call: %v\n", s.elapsed/time.Duration(total))
	}
	fmt.Printf("Total time:            %v\n", s.elapsed)
}
