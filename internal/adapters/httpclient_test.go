package adapters

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testHTTPClient() *HTTPClient {
	return NewHTTPClient(HTTPConfig{
		Timeout:      2 * time.Second,
		Retries:      3,
		RetryDelay:   time.Millisecond,
		PerHostRate:  rate.Inf,
		PerHostBurst: 1,
	})
}

func TestHTTPClientRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := testHTTPClient().Get(t.Context(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(3), calls.Load())
}

func TestHTTPClientDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resp, err := testHTTPClient().Get(t.Context(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, int32(1), calls.Load())
}

func TestHTTPClientReturnsLastTransientResponse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resp, err := testHTTPClient().Get(t.Context(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Equal(t, int32(3), calls.Load())
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"value":"hello"}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			_, _ = w.Write([]byte(`{"value":`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()
	client := testHTTPClient()

	t.Run("decodes payload", func(t *testing.T) {
		var payload struct {
			Value string `json:"value"`
		}
		found, err := client.GetJSON(t.Context(), server.URL+"/ok", &payload)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "hello", payload.Value)
	})

	t.Run("404 is a clean miss", func(t *testing.T) {
		var payload struct{}
		found, err := client.GetJSON(t.Context(), server.URL+"/missing", &payload)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("decode failure is an error", func(t *testing.T) {
		var payload struct{}
		_, err := client.GetJSON(t.Context(), server.URL+"/broken", &payload)
		require.Error(t, err)
	})

	t.Run("unexpected status is an error", func(t *testing.T) {
		var payload struct{}
		_, err := client.GetJSON(t.Context(), server.URL+"/other", &payload)
		require.Error(t, err)
	})
}
