package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"

	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

// DefaultTimeout bounds every upstream round trip.
const DefaultTimeout = 10 * time.Second

var (
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errMissingField = errors.New("malformed payload")
)

var validate = validator.New()

// HTTPClientConfig bundles the HTTP client and the circuit breaker guarding one upstream.
type HTTPClientConfig struct {
	Client  *http.Client
	Circuit *gobreaker.CircuitBreaker
}

// NewHTTPClient returns a client with the upstream timeout applied.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func newHTTPClientConfig(name string, client *http.Client) HTTPClientConfig {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: upstreamHealthy,
	})
	return HTTPClientConfig{Client: client, Circuit: cb}
}

// upstreamHealthy reports whether err leaves the upstream's health untouched.
// Client errors other than 429 come from the request, not the upstream, so they
// never count toward opening the circuit.
func upstreamHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 400 && se.status < 500 && se.status != http.StatusTooManyRequests
	}
	return errors.Is(err, context.Canceled)
}

// doRequest executes a single request through the circuit breaker. There are no
// retries: a failed call is final. Any failure is reported as a *travel.TransportError.
func doRequest(ctx context.Context, op string, cfg HTTPClientConfig, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, &travel.TransportError{Op: op, Err: errNoHTTPClient}
	}

	req, err := buildRequest()
	if err != nil {
		return nil, &travel.TransportError{Op: op, Err: err}
	}
	req = req.WithContext(ctx)

	result, err := cfg.Circuit.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &travel.TransportError{Op: op, Err: fmt.Errorf("%w: %v", errCircuitOpen, err)}
		}
		var se *statusError
		if errors.As(err, &se) {
			return nil, &travel.TransportError{Op: op, StatusCode: se.status, Err: se}
		}
		return nil, &travel.TransportError{Op: op, Err: err}
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, &travel.TransportError{Op: op, Err: fmt.Errorf("unexpected result type from circuit breaker")}
	}
	return resp, nil
}

// decodeJSON reads and closes the response body into v.
func decodeJSON(op string, resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &travel.TransportError{Op: op, Err: fmt.Errorf("%w: %v", errMissingField, err)}
	}
	return nil
}

func missingField(op, field string) error {
	return &travel.TransportError{Op: op, Err: fmt.Errorf("%w: missing %s", errMissingField, field)}
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("%v %d", errUnexpected, e.status)
	}
	return fmt.Sprintf("%v %d: %s", errUnexpected, e.status, e.body)
}

func (e *statusError) Unwrap() error {
	return errUnexpected
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
