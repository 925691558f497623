package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the root of the Airtable REST API
	DefaultBaseURL = "https://api.airtable.com/v0"
	// PageSize is the most records Airtable returns per list response
	PageSize = 100
)

// Client is an Airtable REST API client. It holds no per-request state and
// may be shared between goroutines.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Airtable client authenticating with a personal
// access token or API key.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("airtable API key is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL, err := url.Parse(strings.TrimRight(o.baseURL, "/"))
	if err != nil {
		return nil, &URLError{Target: o.baseURL, Reason: "unparsable base url", Err: err}
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, &URLError{Target: o.baseURL, Reason: "base url must be absolute"}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "airtable").Logger(),
	}, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint joins path-escaped segments onto the API root
func (c *Client) endpoint(segments ...string) (*url.URL, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		if strings.TrimSpace(s) == "" {
			return nil, &URLError{
				Target: strings.Join(segments, "/"),
				Reason: fmt.Sprintf("path segment %d is empty", i),
			}
		}
		escaped[i] = url.PathEscape(s)
	}

	ref := strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u, err := c.baseURL.Parse(ref)
	if err != nil {
		return nil, &URLError{Target: ref, Reason: "cannot resolve path", Err: err}
	}
	return u, nil
}

// doRequest performs an HTTP request with authentication and returns the
// body of a 2xx response
func (c *Client) doRequest(ctx context.Context, method string, target *url.URL, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, &URLError{Target: target.String(), Reason: "failed to create request", Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: redact(target), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: redact(target), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        redact(target),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &SerializationError{Op: "decode", Err: err}
	}
	return nil
}

// redact drops the query string, which may hold user formulas, from URLs
// that end up in error messages
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}

// WhoAmI describes the owner of the token
type WhoAmI struct {
	ID     string   `json:"id"`
	Email  string   `json:"email,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// WhoAmI verifies the token against the meta API
func (c *Client) WhoAmI(ctx context.Context) (*WhoAmI, error) {
	u, err := c.endpoint("meta", "whoami")
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var who WhoAmI
	if err := decode(body, &who); err != nil {
		return nil, err
	}
	return &who, nil
}
