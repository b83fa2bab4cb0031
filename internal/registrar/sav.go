package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const savAPIURL = "https://apibeta.sav.com/domains_api_v1"

// Sav lists domains via the Sav.com domains API. The API is form-posted
// with the key in the body.
type Sav struct {
	apiKey string
	http   *http.Client
	apiURL string
}

// NewSav creates a Sav.com client.
func NewSav(apiKey string) (*Sav, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sav: %w", ErrMissingCredentials)
	}
	return &Sav{apiKey: apiKey, http: newHTTPClient(), apiURL: savAPIURL}, nil
}

func (s *Sav) Name() string { return "sav" }

func (s *Sav) ListDomains(ctx context.Context) ([]Record, error) {
	form := url.Values{}
	form.Set("api_key", s.apiKey)
	form.Set("command", "get_active_domains_in_account")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sav: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := doRequest(s.http, req)
	if err != nil {
		return nil, fmt.Errorf("sav: %w", err)
	}

	var resp struct {
		Success bool `json:"success"`
		Domains []struct {
			Domain         string `json:"domain"`
			DateExpiration string `json:"date_expiration"`
		} `json:"domains"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("sav: parse response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("sav: API reported failure")
	}

	records := make([]Record, 0, len(resp.Domains))
	for _, d := range resp.Domains {
		exp, err := time.Parse("2006-01-02", strings.Split(d.DateExpiration, " ")[0])
		if err != nil {
			continue
		}
		records = append(records, Record{Name: d.Domain, Expiration: exp})
	}
	return records, nil
}
