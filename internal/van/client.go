// internal/van/client.go
package van

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultBaseURL = "https://api.securevan.com"
	defaultTimeout = 5 * time.Second
	maxRetries     = 2
)

// Client talks to the NGP VAN API. Requests carry a bounded timeout and
// retry count; callers treat failures as the external system being
// unavailable, never as local state corruption.
type Client struct {
	BaseURL string
	AppName string
	APIKey  string
	HTTP    *http.Client
}

// NewClientFromEnv builds a client from NGP_VAN_* environment variables.
func NewClientFromEnv() *Client {
	base := os.Getenv("NGP_VAN_API_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		BaseURL: base,
		AppName: os.Getenv("NGP_VAN_APP_NAME"),
		APIKey:  os.Getenv("NGP_VAN_API_KEY"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// Campaign is the slice of the VAN campaign record we surface.
type Campaign struct {
	CampaignID int    `json:"campaignId"`
	Name       string `json:"name"`
	ShortName  string `json:"shortName"`
}

type campaignsResponse struct {
	Items []Campaign `json:"items"`
}

func (c *Client) get(path string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
		if err != nil {
			return err
		}
		// VAN basic auth: app name / "<key>|0"
		req.SetBasicAuth(c.AppName, c.APIKey+"|0")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("van: unexpected status %d for %s", resp.StatusCode, path)
				return
			}
			lastErr = json.NewDecoder(resp.Body).Decode(out)
		}()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// ListCampaigns fetches the account's VAN campaigns.
func (c *Client) ListCampaigns() ([]Campaign, error) {
	var body campaignsResponse
	if err := c.get("/v4/campaigns", &body); err != nil {
		return nil, err
	}
	return body.Items, nil
}
