package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

func TestCircuitIgnoresClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := newHTTPClientConfig("test", srv.Client())
	for i := 0; i < 10; i++ {
		_, err := doRequest(context.Background(), "test", cfg, func() (*http.Request, error) {
			return http.NewRequest(http.MethodGet, srv.URL, nil)
		})
		var te *travel.TransportError
		if !errors.As(err, &te) || te.StatusCode != http.StatusBadRequest {
			t.Fatalf("call %d: expected 400 transport error, got %v", i, err)
		}
	}
	if calls.Load() != 10 {
		t.Fatalf("expected every call to reach the upstream, got %d", calls.Load())
	}
}

func TestCircuitOpensOnUpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusServiceUnavailable},
		{"rate limited", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			cfg := newHTTPClientConfig("test", srv.Client())
			var err error
			for i := 0; i < 6; i++ {
				_, err = doRequest(context.Background(), "test", cfg, func() (*http.Request, error) {
					return http.NewRequest(http.MethodGet, srv.URL, nil)
				})
			}
			if !errors.Is(err, errCircuitOpen) {
				t.Fatalf("expected open circuit, got %v", err)
			}
			if calls.Load() != 5 {
				t.Fatalf("expected 5 upstream calls, got %d", calls.Load())
			}
		})
	}
}
