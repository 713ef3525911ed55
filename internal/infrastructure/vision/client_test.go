package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobe/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:            "test-api-key",
		BaseURL:           baseURL,
		Model:             "garment-vision-v1",
		RequestsPerSecond: 100,
	})
}

func TestNewClient(t *testing.T) {
	client := newTestClient("https://vision.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://vision.example.com", client.baseURL)
	assert.Equal(t, "garment-vision-v1", client.model)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := newTestClient("https://vision.example.com")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(http.StatusInternalServerError))
	assert.True(t, retryable(http.StatusBadGateway))
	assert.True(t, retryable(http.StatusTooManyRequests))
	assert.False(t, retryable(http.StatusBadRequest))
	assert.False(t, retryable(http.StatusUnauthorized))
}

func TestAnalyzeImage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var body analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://img.example.com/coat.jpg", body.ImageURL)
		assert.Equal(t, "garment-vision-v1", body.Model)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.VisionAnalysis{
			Label:                  "camel wool overcoat",
			Brand:                  "Acme",
			Tier:                   "luxury",
			AuthenticityConfidence: "high",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.AnalyzeImage(context.Background(), "https://img.example.com/coat.jpg")

	require.NoError(t, err)
	assert.Equal(t, "camel wool overcoat", result.Label)
	assert.Equal(t, "Acme", result.Brand)
	assert.Equal(t, "luxury", result.Tier)
	assert.Equal(t, "high", result.AuthenticityConfidence)
}

func TestAnalyzeImage_ServerError_Retries(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(domain.VisionAnalysis{Label: "silk scarf"})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, "silk scarf", result.Label)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestAnalyzeImage_ClientError_NoRetry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrVisionAPIFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestAnalyzeImage_TooManyRequests_Retries(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(domain.VisionAnalysis{Label: "denim jacket"})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	require.NoError(t, err)
	assert.Equal(t, "denim jacket", result.Label)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestAnalyzeImage_AllRetriesFail(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrVisionAPIFailure)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&attempts))
}

func TestAnalyzeImage_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not valid json"))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestAnalyzeImage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := newTestClient(server.URL).AnalyzeImage(ctx, "https://img.example.com/a.jpg")

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestAnalyzeImage_RequestCreationError(t *testing.T) {
	result, err := newTestClient("://invalid-url").AnalyzeImage(context.Background(), "https://img.example.com/a.jpg")

	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestDebugLog(t *testing.T) {
	var buf bytes.Buffer
	client := newTestClient("https://vision.example.com")
	client.logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	client.debug = false
	client.debugLog("test message %s", "quiet")
	assert.Empty(t, buf.String())

	client.debug = true
	client.debugLog("test message %s", "loud")
	assert.Contains(t, buf.String(), "test message loud")
}

func TestReadLimitedBody(t *testing.T) {
	t.Run("reads within limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("short content"))
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 1000)
		require.NoError(t, err)
		assert.Equal(t, "short content", string(body))
	})

	t.Run("truncates beyond limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for i := 0; i < 100; i++ {
				w.Write([]byte("0123456789"))
			}
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 100)
		require.NoError(t, err)
		assert.Len(t, body, 100)
	})
}
