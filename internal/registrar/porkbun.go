package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const porkbunAPIURL = "https://api.porkbun.com/api/json/v3"

// Porkbun lists domains via the Porkbun JSON v3 API. Credentials ride in
// the request body.
type Porkbun struct {
	apiKey    string
	apiSecret string
	http      *http.Client
	apiURL    string
}

// NewPorkbun creates a Porkbun client.
func NewPorkbun(apiKey, apiSecret string) (*Porkbun, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("porkbun: %w", ErrMissingCredentials)
	}
	return &Porkbun{apiKey: apiKey, apiSecret: apiSecret, http: newHTTPClient(), apiURL: porkbunAPIURL}, nil
}

func (p *Porkbun) Name() string { return "porkbun" }

func (p *Porkbun) ListDomains(ctx context.Context) ([]Record, error) {
	payload, err := json.Marshal(map[string]string{
		"apikey":       p.apiKey,
		"secretapikey": p.apiSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("porkbun: marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/domain/listAll", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("porkbun: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := doRequest(p.http, req)
	if err != nil {
		return nil, fmt.Errorf("porkbun: %w", err)
	}

	var resp struct {
		Status  string `json:"status"`
		Domains []struct {
			Domain     string `json:"domain"`
			ExpireDate string `json:"expireDate"`
		} `json:"domains"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("porkbun: parse response: %w", err)
	}
	if resp.Status != "SUCCESS" {
		return nil, fmt.Errorf("porkbun: API status %q", resp.Status)
	}

	records := make([]Record, 0, len(resp.Domains))
	for _, d := range resp.Domains {
		exp, err := time.Parse("2006-01-02 15:04:05", d.ExpireDate)
		if err != nil {
			continue
		}
		records = append(records, Record{Name: d.Domain, Expiration: exp})
	}
	return records, nil
}
