package registrar

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const namecheapAPIURL = "https://api.namecheap.com/xml.response"

// Namecheap lists domains via the Namecheap XML API. The API pages at
// 100 items and requires the caller's IP in every request.
type Namecheap struct {
	apiUser  string
	apiKey   string
	clientIP string
	http     *http.Client
	apiURL   string
}

// NewNamecheap creates a Namecheap client.
func NewNamecheap(apiUser, apiKey, clientIP string) (*Namecheap, error) {
	if apiUser == "" || apiKey == "" {
		return nil, fmt.Errorf("namecheap: %w", ErrMissingCredentials)
	}
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}
	return &Namecheap{apiUser: apiUser, apiKey: apiKey, clientIP: clientIP, http: newHTTPClient(), apiURL: namecheapAPIURL}, nil
}

func (n *Namecheap) Name() string { return "namecheap" }

type namecheapResponse struct {
	Status string `xml:"Status,attr"`
	Errors struct {
		Error []string `xml:"Error"`
	} `xml:"Errors"`
	CommandResponse struct {
		DomainGetListResult struct {
			Domains []struct {
				Name    string `xml:"Name,attr"`
				Expires string `xml:"Expires,attr"`
			} `xml:"Domain"`
		} `xml:"DomainGetListResult"`
		Paging struct {
			TotalItems int `xml:"TotalItems"`
			PageSize   int `xml:"PageSize"`
		} `xml:"Paging"`
	} `xml:"CommandResponse"`
}

func (n *Namecheap) ListDomains(ctx context.Context) ([]Record, error) {
	var records []Record
	for page := 1; ; page++ {
		resp, err := n.listPage(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, d := range resp.CommandResponse.DomainGetListResult.Domains {
			exp, err := time.Parse("01/02/2006", d.Expires)
			if err != nil {
				continue
			}
			records = append(records, Record{Name: d.Name, Expiration: exp})
		}
		paging := resp.CommandResponse.Paging
		if paging.PageSize <= 0 || page*paging.PageSize >= paging.TotalItems {
			break
		}
	}
	return records, nil
}

func (n *Namecheap) listPage(ctx context.Context, page int) (*namecheapResponse, error) {
	params := url.Values{}
	params.Set("ApiUser", n.apiUser)
	params.Set("ApiKey", n.apiKey)
	params.Set("UserName", n.apiUser)
	params.Set("ClientIp", n.clientIP)
	params.Set("Command", "namecheap.domains.getList")
	params.Set("PageSize", "100")
	params.Set("Page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("namecheap: build request: %w", err)
	}

	body, err := doRequest(n.http, req)
	if err != nil {
		return nil, fmt.Errorf("namecheap: %w", err)
	}

	var resp namecheapResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("namecheap: parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		msg := "unknown error"
		if len(resp.Errors.Error) > 0 {
			msg = resp.Errors.Error[0]
		}
		return nil, fmt.Errorf("namecheap: API error: %s", msg)
	}
	return &resp, nil
}
