package whois

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const verisignResponse = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar URL: http://res-dom.iana.org
   Updated Date: 2025-08-14T07:01:31Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2026-08-13T04:00:00Z
`

func TestParseRecord(t *testing.T) {
	testCases := []struct {
		name          string
		body          string
		wantOK        bool
		wantRegistrar string
		wantExpiry    time.Time
	}{
		{
			name:          "verisign style response",
			body:          verisignResponse,
			wantOK:        true,
			wantRegistrar: "RESERVED-Internet Assigned Numbers Authority",
			wantExpiry:    time.Date(2026, 8, 13, 4, 0, 0, 0, time.UTC),
		},
		{
			name:          "lowercase labels with plain date",
			body:          "registrar: NameCheap, Inc.\nexpiration date: 2027-01-15\n",
			wantOK:        true,
			wantRegistrar: "NameCheap, Inc.",
			wantExpiry:    time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "paid-till style",
			body:       "domain: EXAMPLE.RU\npaid-till: 2026-11-01T21:00:00Z\n",
			wantOK:     true,
			wantExpiry: time.Date(2026, 11, 1, 21, 0, 0, 0, time.UTC),
		},
		{
			name:          "trailing timezone word stripped",
			body:          "Registrar: Dynadot LLC\nExpiration Date: 2026-09-30 23:59:59 UTC\n",
			wantOK:        true,
			wantRegistrar: "Dynadot LLC",
			wantExpiry:    time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name:          "registrar but no expiry",
			body:          "Registrar: Example Registrar\nStatus: ok\n",
			wantOK:        false,
			wantRegistrar: "Example Registrar",
		},
		{
			name:   "empty body",
			body:   "",
			wantOK: false,
		},
		{
			name:   "unparseable expiry date",
			body:   "Expiration Date: soonish\n",
			wantOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, ok := parseRecord(tc.body)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantRegistrar, rec.registrar)
			if tc.wantOK {
				assert.True(t, tc.wantExpiry.Equal(*rec.expiry), "expiry = %v, want %v", rec.expiry, tc.wantExpiry)
			}
		})
	}
}

func TestIsNoRecord(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected bool
	}{
		{name: "verisign no match", body: `No match for "NOSUCHDOMAIN-ZZZ.COM".`, expected: true},
		{name: "generic not found", body: "Domain not found.", expected: true},
		{name: "afnic free status", body: "%% status: FREE\n", expected: true},
		{name: "rdap style", body: "The queried object does not exist: example.dev", expected: true},
		{name: "registered domain", body: verisignResponse, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isNoRecord(tc.body))
		})
	}
}

func TestParseReferral(t *testing.T) {
	body := "refer:        whois.verisign-grs.com\n" +
		"domain:       COM\n" +
		"whois:        whois.verisign-grs.com\n" +
		"status:       ACTIVE\n"
	assert.Equal(t, "whois.verisign-grs.com", parseReferral(body))

	assert.Equal(t, "", parseReferral("domain: COM\nstatus: ACTIVE\n"))
}

func TestServerDirectory(t *testing.T) {
	dir := newServerDirectory()

	server, ok := dir.lookup("com")
	assert.True(t, ok)
	assert.Equal(t, "whois.verisign-grs.com", server)

	_, ok = dir.lookup("example")
	assert.False(t, ok)

	dir.store("example", "whois.nic.example")
	server, ok = dir.lookup("example")
	assert.True(t, ok)
	assert.Equal(t, "whois.nic.example", server)
}
