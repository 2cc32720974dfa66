package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	webhttp "github.com/fwojciec/webclip/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("retries transient status", func(t *testing.T) {
		t.Parallel()

		server, hits := statusSequence(t, http.StatusServiceUnavailable, http.StatusOK)
		sleepFn, sleeps := recordSleeps()
		client := webhttp.NewExecutor(webhttp.WithSleep(sleepFn)).HTTPClient()

		resp, err := client.Get(server.URL)

		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "OK", string(body))
		assert.Equal(t, 2, hits())
		assert.Len(t, sleeps(), 1)
	})

	t.Run("returns final error status with full body", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("e", 5000)
		var mu sync.Mutex
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			hits++
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, long)
		}))
		t.Cleanup(server.Close)
		sleepFn, _ := recordSleeps()
		client := webhttp.NewExecutor(webhttp.WithSleep(sleepFn)).HTTPClient()

		resp, err := client.Get(server.URL)

		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, long, string(body))
		mu.Lock()
		assert.Equal(t, webhttp.DefaultMaxAttempts, hits)
		mu.Unlock()
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		server, hits := statusSequence(t, http.StatusBadRequest)
		sleepFn, _ := recordSleeps()
		client := webhttp.NewExecutor(webhttp.WithSleep(sleepFn)).HTTPClient()

		resp, err := client.Get(server.URL)

		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 1, hits())
	})

	t.Run("replays request body", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var bodies []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			mu.Lock()
			bodies = append(bodies, string(b))
			n := len(bodies)
			mu.Unlock()
			if n == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(server.Close)
		sleepFn, _ := recordSleeps()
		client := webhttp.NewExecutor(webhttp.WithSleep(sleepFn)).HTTPClient()

		// A bare reader leaves GetBody unset.
		req, err := http.NewRequest(http.MethodPost, server.URL, io.NopCloser(strings.NewReader(`{"a":1}`)))
		require.NoError(t, err)
		require.Nil(t, req.GetBody)

		resp, err := client.Do(req)

		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{`{"a":1}`, `{"a":1}`}, bodies)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()
		sleepFn, _ := recordSleeps()
		client := webhttp.NewExecutor(webhttp.WithSleep(sleepFn)).HTTPClient()

		resp, err := client.Get(url)

		if resp != nil {
			resp.Body.Close()
		}
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		server, hits := statusSequence(t, http.StatusOK)
		client := webhttp.NewExecutor().HTTPClient()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		_, err = client.Do(req)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, hits())
	})
}
