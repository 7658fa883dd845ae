package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// doRequest executes a single circuit-guarded HTTP attempt. The provider
// contract is one call per city per cycle; retrying is left to the next
// collection cycle, so there is no backoff loop here.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		// Rate limiting and server errors count as breaker failures.
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
