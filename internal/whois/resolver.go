// Package whois resolves a domain name's registrar and expiration date by
// querying registry WHOIS servers through the rotating proxy transport.
package whois

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/domainflip/backoffice/internal/logger"
	"github.com/domainflip/backoffice/internal/models"
	"github.com/domainflip/backoffice/internal/proxy"
)

const (
	whoisPort = "43"
	// maxResponseBytes bounds how much of a WHOIS response is read
	maxResponseBytes = 1 << 20
)

// errNoRecord marks a successfully-connected lookup that returned no
// registration record. It is terminal: retrying will not make the registry
// know the domain.
var errNoRecord = models.ErrNoWhoisRecord

// Transport is the slice of the proxy transport the resolver needs.
// *proxy.Transport satisfies it.
type Transport interface {
	Run(ctx context.Context, isRetryable func(error) bool, op func(ctx context.Context, opts proxy.ConnOptions) error) error
}

// Resolver performs WHOIS lookups. Resolve never returns a Go error for
// ordinary lookup failure; failures are folded into the returned
// WhoisResult so a mixed batch can be processed without per-item error
// handling.
type Resolver struct {
	transport Transport
	dir       *serverDirectory
	logger    logger.Logger
	// dial opens the connection for one attempt; overridable in tests
	dial func(ctx context.Context, opts proxy.ConnOptions, network, addr string) (net.Conn, error)
}

// NewResolver creates a resolver on top of the given proxy transport.
func NewResolver(transport Transport, log logger.Logger) *Resolver {
	return &Resolver{
		transport: transport,
		dir:       newServerDirectory(),
		logger:    log,
		dial: func(ctx context.Context, opts proxy.ConnOptions, network, addr string) (net.Conn, error) {
			return opts.DialContext(ctx, network, addr)
		},
	}
}

// Resolve looks up the registrar and expiration date for domain. Connection
// failures are retried by the transport with a fresh egress identity per
// attempt; a response with no record is reported once and not retried.
func (r *Resolver) Resolve(ctx context.Context, domain string) models.WhoisResult {
	result := models.WhoisResult{Domain: domain, Registrar: models.UnknownRegistrar}

	tld := models.TLD(domain)
	if tld == "" {
		result.Err = models.ErrInvalidDomain.Error()
		return result
	}

	server, err := r.serverForTLD(ctx, tld)
	if err != nil {
		r.logger.Warn("no WHOIS server for TLD",
			logger.String("domain", domain),
			logger.String("tld", tld),
			logger.Error(err))
		result.Err = "Unable to retrieve WHOIS data."
		return result
	}

	body, err := r.query(ctx, server, domain)
	if err != nil {
		if errors.Is(err, errNoRecord) {
			r.logger.Info("WHOIS returned no record",
				logger.String("domain", domain),
				logger.String("server", server))
			result.Err = errNoRecord.Error()
			return result
		}
		r.logger.Warn("WHOIS lookup failed",
			logger.String("domain", domain),
			logger.String("server", server),
			logger.Error(err))
		result.Err = "Unable to retrieve WHOIS data."
		return result
	}

	rec, ok := parseRecord(body)
	if !ok {
		r.logger.Info("WHOIS response has no parseable expiration",
			logger.String("domain", domain),
			logger.String("server", server))
		result.Err = errNoRecord.Error()
		return result
	}

	if rec.registrar != "" {
		result.Registrar = rec.registrar
	}
	result.ExpirationDate = rec.expiry

	r.logger.Debug("WHOIS resolved",
		logger.String("domain", domain),
		logger.String("registrar", result.Registrar),
		logger.Time("expiration_date", *rec.expiry))
	return result
}

// serverForTLD returns the WHOIS server responsible for tld, discovering it
// via an IANA referral when the directory has no entry.
func (r *Resolver) serverForTLD(ctx context.Context, tld string) (string, error) {
	if server, ok := r.dir.lookup(tld); ok {
		return server, nil
	}

	body, err := r.query(ctx, ianaHost, tld)
	if err != nil {
		return "", fmt.Errorf("iana referral for %q: %w", tld, err)
	}

	server := parseReferral(body)
	if server == "" {
		return "", fmt.Errorf("no whois server registered for tld %q", tld)
	}

	r.dir.store(tld, server)
	return server, nil
}

// query runs one WHOIS exchange against server through the proxy transport,
// retrying connection-class failures only.
func (r *Resolver) query(ctx context.Context, server, q string) (string, error) {
	var body string

	err := r.transport.Run(ctx, isConnectionError, func(ctx context.Context, opts proxy.ConnOptions) error {
		callCtx, cancel := context.WithTimeout(ctx, opts.CallTimeout)
		defer cancel()

		conn, err := r.dial(callCtx, opts, "tcp", net.JoinHostPort(server, whoisPort))
		if err != nil {
			return err
		}
		defer conn.Close()

		_ = conn.SetDeadline(time.Now().Add(opts.CallTimeout))

		if _, err := io.WriteString(conn, q+"\r\n"); err != nil {
			return fmt.Errorf("write query: %w", err)
		}

		raw, err := io.ReadAll(io.LimitReader(conn, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if len(raw) == 0 {
			return fmt.Errorf("empty response from %s", server)
		}

		body = string(raw)
		if isNoRecord(body) {
			return errNoRecord
		}
		return nil
	})

	if err != nil {
		return "", err
	}
	return body, nil
}

// isConnectionError scopes retries to transport-class failures. A
// no-record response means the query itself succeeded and must not be
// retried.
func isConnectionError(err error) bool {
	if err == nil || errors.Is(err, errNoRecord) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}

	s := strings.ToLower(err.Error())
	for _, needle := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"unexpected eof",
		"socks",
	} {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
