package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const dynadotAPIURL = "https://api.dynadot.com/api3.json"

// Dynadot lists domains via the Dynadot api3 JSON endpoint. Expiration
// timestamps come back as unix milliseconds.
type Dynadot struct {
	apiKey string
	http   *http.Client
	apiURL string
}

// NewDynadot creates a Dynadot client.
func NewDynadot(apiKey string) (*Dynadot, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("dynadot: %w", ErrMissingCredentials)
	}
	return &Dynadot{apiKey: apiKey, http: newHTTPClient(), apiURL: dynadotAPIURL}, nil
}

func (d *Dynadot) Name() string { return "dynadot" }

func (d *Dynadot) ListDomains(ctx context.Context) ([]Record, error) {
	params := url.Values{}
	params.Set("key", d.apiKey)
	params.Set("command", "list_domain")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("dynadot: build request: %w", err)
	}

	body, err := doRequest(d.http, req)
	if err != nil {
		return nil, fmt.Errorf("dynadot: %w", err)
	}

	var resp struct {
		ListDomainInfoResponse struct {
			ResponseCode string `json:"ResponseCode"`
			MainDomains  []struct {
				Name       string `json:"Name"`
				Expiration string `json:"Expiration"`
			} `json:"MainDomains"`
		} `json:"ListDomainInfoResponse"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("dynadot: parse response: %w", err)
	}
	if code := resp.ListDomainInfoResponse.ResponseCode; code != "" && code != "0" {
		return nil, fmt.Errorf("dynadot: API response code %q", code)
	}

	records := make([]Record, 0, len(resp.ListDomainInfoResponse.MainDomains))
	for _, d := range resp.ListDomainInfoResponse.MainDomains {
		var millis int64
		if _, err := fmt.Sscanf(d.Expiration, "%d", &millis); err != nil || millis <= 0 {
			continue
		}
		records = append(records, Record{Name: d.Name, Expiration: time.UnixMilli(millis).UTC()})
	}
	return records, nil
}
