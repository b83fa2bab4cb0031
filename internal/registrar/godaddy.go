package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const godaddyAPIURL = "https://api.godaddy.com/v1"

// GoDaddy lists domains via the GoDaddy v1 API using sso-key
// authentication.
type GoDaddy struct {
	apiKey string
	http   *http.Client
	apiURL string
}

// NewGoDaddy creates a GoDaddy client. apiKey is the "key:secret" sso-key
// pair.
func NewGoDaddy(apiKey string) (*GoDaddy, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("godaddy: %w", ErrMissingCredentials)
	}
	return &GoDaddy{apiKey: apiKey, http: newHTTPClient(), apiURL: godaddyAPIURL}, nil
}

func (g *GoDaddy) Name() string { return "godaddy" }

func (g *GoDaddy) ListDomains(ctx context.Context) ([]Record, error) {
	url := g.apiURL + "/domains?statuses=ACTIVE&limit=1000"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("godaddy: build request: %w", err)
	}
	req.Header.Set("Authorization", "sso-key "+g.apiKey)
	req.Header.Set("Accept", "application/json")

	body, err := doRequest(g.http, req)
	if err != nil {
		return nil, fmt.Errorf("godaddy: %w", err)
	}

	var payload []struct {
		Domain  string `json:"domain"`
		Expires string `json:"expires"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("godaddy: parse response: %w", err)
	}

	records := make([]Record, 0, len(payload))
	for _, d := range payload {
		exp, err := time.Parse(time.RFC3339, d.Expires)
		if err != nil {
			continue
		}
		records = append(records, Record{Name: d.Domain, Expiration: exp})
	}
	return records, nil
}
