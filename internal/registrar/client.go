// Package registrar implements thin API clients for the registrar accounts
// whose domain inventories feed the back office. Each client lists the
// active domains in one account; persistence lives in the inventory
// service, not here.
package registrar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout      = 30 * time.Second
	maxResponseBodySize = 10 << 20
)

// Record is one domain as reported by a registrar API.
type Record struct {
	Name       string
	Expiration time.Time
}

// Client lists the active domains in one registrar account.
type Client interface {
	// Name is the registrar identifier stored on inventory rows.
	Name() string
	// ListDomains fetches every active domain in the account.
	ListDomains(ctx context.Context) ([]Record, error)
}

// ErrMissingCredentials is returned by clients constructed without the
// credentials their API requires.
var ErrMissingCredentials = fmt.Errorf("registrar API credentials not configured")

// newHTTPClient returns the shared HTTP client used by all registrar
// clients.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// doRequest executes req and returns the response body, enforcing a
// success status and a bounded read.
func doRequest(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", req.URL.Host, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned status %d: %s", req.URL.Host, resp.StatusCode, truncate(body, 200))
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
