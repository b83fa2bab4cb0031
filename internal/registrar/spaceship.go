package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	spaceshipAPIURL   = "https://spaceship.dev/api/v1"
	spaceshipPageSize = 100
)

// Spaceship lists domains via the Spaceship API. Pagination is
// offset-based with a hard page size cap of 100.
type Spaceship struct {
	apiKey    string
	apiSecret string
	http      *http.Client
	apiURL    string
}

// NewSpaceship creates a Spaceship client.
func NewSpaceship(apiKey, apiSecret string) (*Spaceship, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("spaceship: %w", ErrMissingCredentials)
	}
	return &Spaceship{apiKey: apiKey, apiSecret: apiSecret, http: newHTTPClient(), apiURL: spaceshipAPIURL}, nil
}

func (s *Spaceship) Name() string { return "spaceship" }

func (s *Spaceship) ListDomains(ctx context.Context) ([]Record, error) {
	var records []Record
	for skip := 0; ; skip += spaceshipPageSize {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			s.apiURL+"/domains?take="+strconv.Itoa(spaceshipPageSize)+"&skip="+strconv.Itoa(skip), nil)
		if err != nil {
			return nil, fmt.Errorf("spaceship: build request: %w", err)
		}
		req.Header.Set("X-API-Key", s.apiKey)
		req.Header.Set("X-API-Secret", s.apiSecret)

		body, err := doRequest(s.http, req)
		if err != nil {
			return nil, fmt.Errorf("spaceship: %w", err)
		}

		var resp struct {
			Items []struct {
				Name           string `json:"name"`
				ExpirationDate string `json:"expirationDate"`
			} `json:"items"`
			Total int `json:"total"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("spaceship: parse response: %w", err)
		}

		for _, d := range resp.Items {
			exp, err := parseSpaceshipDate(d.ExpirationDate)
			if err != nil {
				continue
			}
			records = append(records, Record{Name: d.Name, Expiration: exp})
		}
		if len(resp.Items) < spaceshipPageSize {
			break
		}
	}
	return records, nil
}

func parseSpaceshipDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
