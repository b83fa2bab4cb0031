package whois

import (
	"regexp"
	"strings"
	"time"
)

var (
	registrarPattern = regexp.MustCompile(`(?im)^[ \t]*registrar:[ \t]*(.+)$`)
	expiryPattern    = regexp.MustCompile(`(?im)^[ \t]*(?:registry expiry date|registrar registration expiration date|expiry date|expiration date|expiration time|expires?(?: on)?|paid-till):[ \t]*(.+)$`)
)

// notFoundNeedles are response fragments that mean the registry holds no
// record for the queried name. Matching any of them is terminal; such
// lookups are never retried.
var notFoundNeedles = []string{
	"no match for",
	"no data found",
	"no entries found",
	"domain not found",
	"no such domain",
	"not found",
	"status: free",
	"no object found",
	"the queried object does not exist",
}

// whoisDateFormats covers the date layouts seen across registry responses.
var whoisDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006/01/02",
	"January 02 2006",
	"2006.01.02",
}

// record is the parsed subset of a WHOIS response the quoting pipeline
// cares about.
type record struct {
	registrar string
	expiry    *time.Time
}

// isNoRecord reports whether the response body carries a registry
// "not found" marker.
func isNoRecord(body string) bool {
	l := strings.ToLower(body)
	for _, needle := range notFoundNeedles {
		if strings.Contains(l, needle) {
			return true
		}
	}
	return false
}

// parseRecord extracts the registrar and expiration timestamp from a raw
// WHOIS response. ok is false when the body has no parseable expiration
// date, which callers treat the same as "no record".
func parseRecord(body string) (rec record, ok bool) {
	if m := registrarPattern.FindStringSubmatch(body); len(m) > 1 {
		rec.registrar = strings.TrimSpace(m[1])
	}

	if m := expiryPattern.FindStringSubmatch(body); len(m) > 1 {
		if t, parsed := parseWhoisDate(m[1]); parsed {
			rec.expiry = &t
		}
	}

	return rec, rec.expiry != nil
}

func parseWhoisDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	// Some registries append a trailing timezone word ("2026-01-02 10:00:00 UTC").
	if i := strings.LastIndexByte(raw, ' '); i > 0 {
		if _, err := time.Parse("MST", raw[i+1:]); err == nil {
			raw = strings.TrimSpace(raw[:i])
		}
	}

	for _, layout := range whoisDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
