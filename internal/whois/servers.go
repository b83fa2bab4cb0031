package whois

import (
	"bufio"
	"strings"
	"sync"
)

// ianaHost answers referral queries mapping a TLD to its registry WHOIS
// server.
const ianaHost = "whois.iana.org"

// wellKnownServers seeds the TLD→server map so the common TLDs never need a
// referral round trip through the proxy.
var wellKnownServers = map[string]string{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.pir.org",
	"info": "whois.afilias.net",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
	"xyz":  "whois.nic.xyz",
	"dev":  "whois.nic.google",
	"app":  "whois.nic.google",
	"ai":   "whois.nic.ai",
	"me":   "whois.nic.me",
	"us":   "whois.nic.us",
	"biz":  "whois.nic.biz",
	"cc":   "ccwhois.verisign-grs.com",
	"tv":   "tvwhois.verisign-grs.com",
}

// serverDirectory caches TLD→WHOIS-server mappings discovered via IANA
// referrals on top of the seeded well-known set.
type serverDirectory struct {
	mu      sync.Mutex
	servers map[string]string
}

func newServerDirectory() *serverDirectory {
	servers := make(map[string]string, len(wellKnownServers))
	for tld, server := range wellKnownServers {
		servers[tld] = server
	}
	return &serverDirectory{servers: servers}
}

func (d *serverDirectory) lookup(tld string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.servers[tld]
	return s, ok
}

func (d *serverDirectory) store(tld, server string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.servers[tld] = server
}

// parseReferral extracts the registry WHOIS server from an IANA referral
// response. Example line: "whois: whois.verisign-grs.com".
func parseReferral(body string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(strings.ToLower(line), "whois:") {
			continue
		}
		fields := strings.Fields(strings.TrimSpace(line[len("whois:"):]))
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}
