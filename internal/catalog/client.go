package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"rocketgrip/internal/domain"
)

// DefaultEndpoint is the public SpaceX rocket catalog
const DefaultEndpoint = "https://api.spacexdata.com/v3/rockets"

// ErrCatalog wraps every failure to retrieve or decode the catalog
var ErrCatalog = errors.New("catalog unavailable")

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog endpoint returned %s", e.Status)
}

func (e *StatusError) Unwrap() error { return ErrCatalog }

// Client retrieves the full rocket catalog. It holds no state between
// calls: every Fetch is a fresh request.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	log      logrus.FieldLogger
}

// NewClient creates a catalog client. A nil httpClient means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     httpClient,
		log:      log.WithField("component", "catalog"),
	}
}

// Fetch retrieves the entire catalog. No query parameters are sent.
func (c *Client) Fetch(ctx context.Context) ([]domain.Rocket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalog, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalog, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var rockets []domain.Rocket
	if err := json.NewDecoder(resp.Body).Decode(&rockets); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrCatalog, err)
	}

	c.log.WithField("count", len(rockets)).Debug("catalog retrieved")
	return rockets, nil
}

// FetchByName retrieves the catalog and keeps the rockets whose name contains name
func (c *Client) FetchByName(ctx context.Context, name string) ([]domain.Rocket, error) {
	rockets, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByName(rockets, name), nil
}

// FilterByName returns the rockets whose name contains q, case-sensitive,
// in catalog order. The empty query matches every rocket.
func FilterByName(rockets []domain.Rocket, q string) []domain.Rocket {
	out := make([]domain.Rocket, 0, len(rockets))
	for _, r := range rockets {
		if strings.Contains(r.Name, q) {
			out = append(out, r)
		}
	}
	return out
}
