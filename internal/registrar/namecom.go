package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const namecomAPIURL = "https://api.name.com/v4"

// NameCom lists domains via the Name.com v4 API using basic auth with
// the account username and API token.
type NameCom struct {
	username string
	token    string
	http     *http.Client
	apiURL   string
}

// NewNameCom creates a Name.com client.
func NewNameCom(username, token string) (*NameCom, error) {
	if username == "" || token == "" {
		return nil, fmt.Errorf("namecom: %w", ErrMissingCredentials)
	}
	return &NameCom{username: username, token: token, http: newHTTPClient(), apiURL: namecomAPIURL}, nil
}

func (n *NameCom) Name() string { return "namecom" }

func (n *NameCom) ListDomains(ctx context.Context) ([]Record, error) {
	var records []Record
	for page := 1; ; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			n.apiURL+"/domains?perPage=1000&page="+strconv.Itoa(page), nil)
		if err != nil {
			return nil, fmt.Errorf("namecom: build request: %w", err)
		}
		req.SetBasicAuth(n.username, n.token)

		body, err := doRequest(n.http, req)
		if err != nil {
			return nil, fmt.Errorf("namecom: %w", err)
		}

		var resp struct {
			Domains []struct {
				DomainName string `json:"domainName"`
				ExpireDate string `json:"expireDate"`
			} `json:"domains"`
			NextPage int `json:"nextPage"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("namecom: parse response: %w", err)
		}

		for _, d := range resp.Domains {
			exp, err := time.Parse(time.RFC3339, d.ExpireDate)
			if err != nil {
				continue
			}
			records = append(records, Record{Name: d.DomainName, Expiration: exp})
		}
		if resp.NextPage == 0 {
			break
		}
	}
	return records, nil
}
