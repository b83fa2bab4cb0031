package whois

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/models"
	"github.com/domainflip/backoffice/internal/proxy"
)

// directTransport executes the op once with no proxy and no retries.
type directTransport struct {
	calls int
}

func (t *directTransport) Run(ctx context.Context, isRetryable func(error) bool, op func(ctx context.Context, opts proxy.ConnOptions) error) error {
	t.calls++
	return op(ctx, proxy.ConnOptions{CallTimeout: 5 * time.Second})
}

// errTransport fails every op with a fixed error.
type errTransport struct {
	err error
}

func (t *errTransport) Run(ctx context.Context, isRetryable func(error) bool, op func(ctx context.Context, opts proxy.ConnOptions) error) error {
	return t.err
}

// fakeConn serves canned responses keyed by the queried string. The WHOIS
// exchange is a single write then read-to-EOF, which net.Pipe supports.
func newTestResolver(transport Transport, responses map[string]string) *Resolver {
	r := NewResolver(transport, logger.NewNopLogger())
	r.dial = func(ctx context.Context, opts proxy.ConnOptions, network, addr string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			buf := make([]byte, 256)
			n, err := server.Read(buf)
			if err != nil {
				_ = server.Close()
				return
			}
			q := strings.TrimSpace(string(buf[:n]))
			_, _ = server.Write([]byte(responses[q]))
			_ = server.Close()
		}()
		return client, nil
	}
	return r
}

func TestResolve(t *testing.T) {
	expiry := "2027-03-01T00:00:00Z"
	responses := map[string]string{
		"example.com": "Registrar: Example Registrar LLC\nRegistry Expiry Date: " + expiry + "\n",
	}

	r := newTestResolver(&directTransport{}, responses)
	result := r.Resolve(context.Background(), "example.com")

	require.False(t, result.Failed(), "unexpected error: %s", result.Err)
	assert.Equal(t, "example.com", result.Domain)
	assert.Equal(t, "Example Registrar LLC", result.Registrar)
	require.NotNil(t, result.ExpirationDate)
	assert.True(t, result.ExpirationDate.Equal(time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolveNoRecord(t *testing.T) {
	responses := map[string]string{
		"gone.com": `No match for "GONE.COM".`,
	}

	r := newTestResolver(&directTransport{}, responses)
	result := r.Resolve(context.Background(), "gone.com")

	assert.True(t, result.Failed())
	assert.Equal(t, models.ErrNoWhoisRecord.Error(), result.Err)
}

func TestResolveNoParseableExpiry(t *testing.T) {
	responses := map[string]string{
		"odd.com": "Registrar: Somewhere\nStatus: ok\n",
	}

	r := newTestResolver(&directTransport{}, responses)
	result := r.Resolve(context.Background(), "odd.com")

	// A response with no expiration date is treated as no record.
	assert.True(t, result.Failed())
	assert.Equal(t, models.ErrNoWhoisRecord.Error(), result.Err)
}

func TestResolveConnectionFailure(t *testing.T) {
	r := newTestResolver(&errTransport{err: errors.New("dial tcp: connection refused")}, nil)
	result := r.Resolve(context.Background(), "example.com")

	assert.True(t, result.Failed())
	assert.Equal(t, "Unable to retrieve WHOIS data.", result.Err)
}

func TestResolveInvalidTLD(t *testing.T) {
	r := newTestResolver(&directTransport{}, nil)
	result := r.Resolve(context.Background(), "nodot")

	assert.True(t, result.Failed())
	assert.Equal(t, models.ErrInvalidDomain.Error(), result.Err)
}

func TestResolveDiscoversServerViaReferral(t *testing.T) {
	responses := map[string]string{
		// IANA referral for the unknown TLD.
		"example": "domain: EXAMPLE\nwhois: whois.nic.example\n",
		"site.example": "Registrar: Example NIC\nExpiration Date: 2026-12-31\n",
	}

	transport := &directTransport{}
	r := newTestResolver(transport, responses)
	result := r.Resolve(context.Background(), "site.example")

	require.False(t, result.Failed(), "unexpected error: %s", result.Err)
	assert.Equal(t, "Example NIC", result.Registrar)
	assert.Equal(t, 2, transport.calls, "one referral query plus one lookup")

	// The discovered server is cached for the next lookup.
	server, ok := r.dir.lookup("example")
	assert.True(t, ok)
	assert.Equal(t, "whois.nic.example", server)

	_ = r.Resolve(context.Background(), "other.example")
	assert.Equal(t, 3, transport.calls, "no second referral query")
}

func TestIsConnectionError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "no record is terminal", err: errNoRecord, expected: false},
		{name: "context canceled", err: context.Canceled, expected: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: true},
		{name: "connection refused text", err: errors.New("dial tcp 1.2.3.4:43: Connection Refused"), expected: true},
		{name: "socks handshake failure", err: errors.New("SOCKS5 proxy rejected auth"), expected: true},
		{name: "application error", err: errors.New("empty response from whois.nic.io"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isConnectionError(tc.err))
		})
	}
}
