// aviation/client.go
package aviation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gewnthar/flighttracker/models"
)

const (
	DefaultBaseURL = "http://api.aviationstack.com/v1"
	DefaultTimeout = 10 * time.Second

	// Error bodies are only summarized, never fully needed.
	maxBodyBytes = 4 << 20
)

// Client looks up flights on an AviationStack-compatible provider.
// Each lookup is exactly one GET request; nothing is retried.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	normalizer *Normalizer
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each request. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// NewClient returns a client authenticating with accessKey and normalizing
// records with normalizer.
func NewClient(accessKey string, normalizer *Normalizer, opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		normalizer: normalizer,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// GetFlight fetches the current record for flightNumber and normalizes it.
func (c *Client) GetFlight(ctx context.Context, flightNumber string) (*models.Flight, error) {
	raw, err := c.FetchRaw(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	flight, err := c.normalizer.Normalize(raw, flightNumber)
	if err != nil {
		log.Printf("ERROR Aviation: Normalizing record for %s failed: %v", flightNumber, err)
		return nil, err
	}
	return flight, nil
}

// FetchRaw returns the first record the provider holds for flightNumber.
func (c *Client) FetchRaw(ctx context.Context, flightNumber string) (RawFlightRecord, error) {
	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("flight_iata", flightNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the request URL, which includes the access key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		log.Printf("ERROR Aviation: Request for %s failed: %v", flightNumber, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUpstreamUnavailable, err)
	}

	var payload map[string]any
	decodeErr := json.Unmarshal(body, &payload)

	if decodeErr == nil && payload["error"] != nil {
		msg := providerErrorMessage(payload)
		log.Printf("ERROR Aviation: Provider returned an error for %s (status %d): %s", flightNumber, resp.StatusCode, msg)
		return nil, fmt.Errorf("%w: %s", ErrUpstreamError, msg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		summary := summarizeBody(body)
		log.Printf("ERROR Aviation: Request for %s failed with status code %d: %s", flightNumber, resp.StatusCode, summary)
		if summary == "" {
			return nil, fmt.Errorf("%w: status code %d", ErrUpstreamUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUpstreamUnavailable, resp.StatusCode, summary)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrMalformedRecord, decodeErr)
	}

	data, present := payload["data"]
	if !present || data == nil {
		return nil, ErrNotFound
	}
	records, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: data is %T, not a list", ErrMalformedRecord, data)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}

	switch first := records[0].(type) {
	case map[string]any:
		return RawFlightRecord(first), nil
	case nil:
		return RawFlightRecord{}, nil
	default:
		return nil, fmt.Errorf("%w: record is %T, not an object", ErrMalformedRecord, first)
	}
}

func providerErrorMessage(payload map[string]any) string {
	if msg := stringAt(payload, "error", "message"); msg != nil {
		return *msg
	}
	if info := stringAt(payload, "error", "info"); info != nil {
		return *info
	}
	if s, ok := lookup[string](payload, "error"); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return "Unknown error"
}
