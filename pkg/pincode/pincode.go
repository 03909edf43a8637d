// Package pincode looks up Indian postal codes to auto-fill the checkout
// address form. Lookup failure is never fatal: the caller falls back to
// manual entry.
package pincode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

// DefaultBaseURL is the public postal pincode API.
const DefaultBaseURL = "https://api.postalpincode.in"

var pinPattern = regexp.MustCompile(`^\d{6}$`)

// Location is the district/state pair for a postal code.
type Location struct {
	District string `json:"district"`
	State    string `json:"state"`
}

// Client queries the postal code lookup service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a lookup client; an empty baseURL selects the public
// service.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Lookup resolves a 6-digit code to its district and state.
func (c *Client) Lookup(code string) (*Location, error) {
	if !pinPattern.MatchString(code) {
		return nil, fmt.Errorf("postal code must be 6 digits")
	}

	resp, err := c.httpClient.Get(c.baseURL + "/pincode/" + code)
	if err != nil {
		return nil, fmt.Errorf("pincode lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode lookup failed with status %d", resp.StatusCode)
	}

	var body []struct {
		Status     string `json:"Status"`
		PostOffice []struct {
			District string `json:"District"`
			State    string `json:"State"`
		} `json:"PostOffice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode pincode response: %w", err)
	}

	if len(body) == 0 || body[0].Status != "Success" || len(body[0].PostOffice) == 0 {
		return nil, fmt.Errorf("no location found for postal code %s", code)
	}

	po := body[0].PostOffice[0]
	return &Location{District: po.District, State: po.State}, nil
}
