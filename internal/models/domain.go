package models

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeDomain turns raw user input into a validated, lower-cased ASCII
// domain name. It accepts the kind of input people paste into a textarea:
// surrounding whitespace, mixed case, unicode labels. It returns
// ErrInvalidDomain (wrapped) when the remaining value is not a registrable
// domain name.
func NormalizeDomain(input string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidDomain)
	}
	if strings.ContainsAny(s, " \t,\"'") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}

	// The name must be usable as a URL host.
	u, err := url.Parse("http://" + s)
	if err != nil || u.Host != s {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}

	// Single-label names are not registrable.
	if !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}
	if strings.HasPrefix(ascii, ".") || strings.HasSuffix(ascii, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, input)
	}

	return ascii, nil
}

// TLD returns the last label of a domain name, lower-cased. Returns "" when
// the domain has no dot.
func TLD(domain string) string {
	i := strings.LastIndexByte(domain, '.')
	if i < 0 || i == len(domain)-1 {
		return ""
	}
	return strings.ToLower(domain[i+1:])
}

// SplitDomainList splits newline-separated raw text into trimmed,
// non-empty lines.
func SplitDomainList(raw string) []string {
	var out []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r'
	}) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
