// Package geo resolves Indian postal codes (pincodes) to a locality using
// the public India Post API at api.postalpincode.in.
//
// The upstream answers GET /pincode/{code} with:
//
//	[{"Status":"Success","PostOffice":[{"District":"...","State":"...","Country":"India"}, ...]}]
//
// Only the first post office is used. District becomes the city.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the pincode endpoint; the code is appended as a path segment.
const DefaultBaseURL = "https://api.postalpincode.in/pincode"

// maxResponseBytes caps how much of an upstream body is decoded.
const maxResponseBytes = 1 << 20

// ErrIncorrectPincode is wrapped by every Lookup failure. Callers do not
// distinguish a network failure from an unknown pincode.
var ErrIncorrectPincode = errors.New("geo: incorrect pincode")

// Location is the locality a pincode resolves to.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Client calls the pincode API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client. An empty baseURL means DefaultBaseURL; a zero
// timeout means 10 seconds.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type postOffice struct {
	District string `json:"District"`
	State    string `json:"State"`
	Country  string `json:"Country"`
}

type lookupResult struct {
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// Lookup resolves pincode. Any failure is returned wrapped around
// ErrIncorrectPincode; the underlying cause is kept for logging.
func (c *Client) Lookup(ctx context.Context, pincode string) (*Location, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, fmt.Errorf("%w: empty pincode", ErrIncorrectPincode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(pincode), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrIncorrectPincode, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "donation-hub")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("pincode lookup failed", slog.String("pincode", pincode), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrIncorrectPincode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("pincode lookup returned non-200",
			slog.String("pincode", pincode),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: upstream status %d", ErrIncorrectPincode, resp.StatusCode)
	}

	var results []lookupResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrIncorrectPincode, err)
	}
	if len(results) == 0 || results[0].Status != "Success" || len(results[0].PostOffice) == 0 {
		return nil, fmt.Errorf("%w: %q not recognised", ErrIncorrectPincode, pincode)
	}

	po := results[0].PostOffice[0]
	return &Location{City: po.District, State: po.State, Country: po.Country}, nil
}
