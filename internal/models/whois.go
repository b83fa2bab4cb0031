package models

import "time"

// UnknownRegistrar is the registrar value used when the WHOIS record does
// not name one.
const UnknownRegistrar = "Unknown"

// WhoisResult is the outcome of a single WHOIS lookup. A failed lookup is
// represented by a non-empty Err rather than a Go error so that batch
// processing can carry a mix of priced and failed rows without per-item
// error plumbing.
type WhoisResult struct {
	Domain         string     `json:"domain"`
	Registrar      string     `json:"registrar"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Err            string     `json:"error,omitempty"`
}

// Failed reports whether the lookup ended in a terminal error.
func (r WhoisResult) Failed() bool {
	return r.Err != ""
}

// DaysLeft returns the number of whole days between now and the expiration
// date, clamped at zero. ok is false when the result carries no expiration
// date.
func (r WhoisResult) DaysLeft(now time.Time) (days int, ok bool) {
	if r.ExpirationDate == nil {
		return 0, false
	}
	d := int(r.ExpirationDate.Sub(now).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d, true
}
