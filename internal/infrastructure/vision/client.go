package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/wardrobe/backend/internal/domain"
	"github.com/wardrobe/backend/internal/logging"
)

const (
	maxAttempts       = 3
	maxErrorBodyBytes = 2048
	defaultTimeout    = 30 * time.Second
	defaultRPS        = 1.0
)

// Config holds connection settings for the vision API
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client handles communication with the multimodal garment analysis API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
	logger      *slog.Logger
}

var _ domain.VisionClient = (*Client)(nil)

type analyzeRequest struct {
	ImageURL string `json:"image_url"`
	Model    string `json:"model,omitempty"`
}

// NewClient creates a new vision API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 10), // burst of 10 requests
		logger:      logging.WithComponent("vision-client"),
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// AnalyzeImage asks the vision API to label and grade the garment in the image
func (c *Client) AnalyzeImage(ctx context.Context, imageURL string) (*domain.VisionAnalysis, error) {
	payload, err := json.Marshal(analyzeRequest{ImageURL: imageURL, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1/analyze", c.baseURL)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, endpoint, payload)
		if err != nil {
			c.debugLog("request error (attempt %d): %v", attempt, err)
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
			resp.Body.Close()
			c.debugLog("API error (attempt %d) status=%d body=%s", attempt, resp.StatusCode, string(body))

			lastErr = fmt.Errorf("%w: status %d", domain.ErrVisionAPIFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		var analysis domain.VisionAnalysis
		err = json.NewDecoder(resp.Body).Decode(&analysis)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		c.debugLog("analyzed %q: label=%q tier=%q", imageURL, analysis.Label, analysis.Tier)
		return &analysis, nil
	}

	c.logger.Warn("all vision attempts failed", "image_url", imageURL, "error", lastErr)
	return nil, lastErr
}

// doRequest executes an HTTP POST request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "Wardrobe/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionAPIFailure, err)
	}
	return resp, nil
}

// retryable reports whether a status is worth another attempt: server errors and 429
func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

// exponentialBackoff returns the delay before retry n: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// debugLog writes at info level so the toggle works without lowering log.level
func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		c.logger.Info(fmt.Sprintf(format, args...))
	}
}
