package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "routerctl",
		Short: "Exercise a running query-router service",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the router service")

	rootCmd.AddCommand(newRouteCmd())
	rootCmd.AddCommand(newBenchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type routeResult struct {
	Route      string  `json:"route"`
	Confidence float64 `json:"confidence"`
	TraceID    string  `json:"trace_id"`
}

func sendRoute(query string) (*routeResult, int, time.Duration, error) {
	body, _ := json.Marshal(map[string]string{"query": query})
	start := time.Now()
	resp, err := http.Post(serverURL+"/api/v1/route", "application/json", bytes.NewReader(body))
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, elapsed, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, elapsed, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, elapsed, fmt.Errorf("status %d: %s", resp.StatusCode, string(payload))
	}

	var result routeResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, resp.StatusCode, elapsed, err
	}
	return &result, resp.StatusCode, elapsed, nil
}

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route [query]",
		Short: "Classify a single query",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			result, _, elapsed, err := sendRoute(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("route=%s confidence=%.3f trace_id=%s (%s)\n",
				result.Route, result.Confidence, result.TraceID, elapsed.Round(time.Millisecond))
			return nil
		},
	}
}

func newBenchCmd() *cobra.Command {
	var (
		requests    int
		concurrency int
		query       string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Replay requests against the service and report latency percentiles",
		RunE: func(_ *cobra.Command, _ []string) error {
			latencies := make([]time.Duration, requests)
			errs := make([]error, requests)

			sem := make(chan struct{}, concurrency)
			var wg sync.WaitGroup
			for i := 0; i < requests; i++ {
				wg.Add(1)
				sem <- struct{}{}
				go func(i int) {
					defer wg.Done()
					defer func() { <-sem }()
					_, _, elapsed, err := sendRoute(query)
					latencies[i] = elapsed
					errs[i] = err
				}(i)
			}
			wg.Wait()

			failed := 0
			for _, err := range errs {
				if err != nil {
					failed++
				}
			}

			sort.Slice(latencies, func(a, b int) bool { return latencies[a] < latencies[b] })
			pct := func(p float64) time.Duration {
				idx := int(float64(len(latencies)-1) * p)
				return latencies[idx].Round(time.Millisecond)
			}

			fmt.Printf("requests=%d failed=%d concurrency=%d\n", requests, failed, concurrency)
			fmt.Printf("p50=%s p95=%s p99=%s max=%s\n", pct(0.50), pct(0.95), pct(0.99), pct(1.0))
			return nil
		},
	}

	cmd.Flags().IntVarP(&requests, "requests", "n", 100, "number of requests to send")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 8, "concurrent requests in flight")
	cmd.Flags().StringVarP(&query, "query", "q", "What is the capital of France?", "query to replay")
	return cmd
}
