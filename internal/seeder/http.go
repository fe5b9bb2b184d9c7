package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillbench/skillbench/pkg/logger"
)

// HTTP status codes the submitter distinguishes.
const (
	statusOK       = 200
	statusAccepted = 202
)

// httpClient wraps http.Client with a shared timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *httpClient) post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitObservations posts observations concurrently through a worker pool.
func submitObservations(ctx context.Context, config *Config, observations []Observation, stats *Stats) error {
	logger.Get().Info(ctx, "submitting observations",
		logger.Int("count", len(observations)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/observations"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	obsChan := make(chan Observation, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for obs := range obsChan {
				select {
				case <-ctx.Done():
					return
				default:
					atomic.AddInt64(&submitted, 1)
					switch submitSingleObservation(ctx, client, url, obs) {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(obsChan)
		for _, obs := range observations {
			select {
			case <-ctx.Done():
				return
			case obsChan <- obs:
			}
		}
	}()

	wg.Wait()

	stats.ObservationsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ObservationsAccepted = int(atomic.LoadInt64(&accepted))
	stats.ObservationsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ObservationsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission completed",
		logger.Int("accepted", stats.ObservationsAccepted),
		logger.Int("duplicate", stats.ObservationsDuplicate),
		logger.Int("failed", stats.ObservationsFailed))
	return nil
}

// submitSingleObservation posts one observation and classifies the outcome.
func submitSingleObservation(ctx context.Context, client *httpClient, url string, obs Observation) string {
	resp, err := client.post(ctx, url, obs)
	if err != nil {
		return "failed"
	}

	body, err := readBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "accepted"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}
