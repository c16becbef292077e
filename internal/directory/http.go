package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPDirectory looks up profiles from the account service over HTTP.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a directory client for the given account-service base URL.
func NewHTTP(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup fetches GET {base}/profiles/{id}.
func (d *HTTPDirectory) Lookup(ctx context.Context, personID string) (Profile, error) {
	u := fmt.Sprintf("%s/profiles/%s", d.baseURL, url.PathEscape(personID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("directory: lookup %s: %w", personID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("directory: lookup %s: status %d", personID, resp.StatusCode)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("directory: decode profile: %w", err)
	}
	return p, nil
}
