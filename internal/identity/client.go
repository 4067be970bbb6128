package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobeval/internal/evaluation/ports"
)

// HeaderAPIKey authenticates calls to the registry.
const HeaderAPIKey = "X-API-Key"

const maxResponseBytes = 64 << 10

// Lookup is one registry answer.
type Lookup struct {
	IdentityNumber string
	Valid          bool
	Country        string
	CheckedAt      time.Time
}

type lookupResponse struct {
	IdentityNumber string `json:"identity_number"`
	Valid          *bool  `json:"valid"`
	Country        string `json:"country"`
	CheckedAt      string `json:"checked_at"`
}

// RegistryClient talks HTTP to the remote identity registry.
type RegistryClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// ClientOption configures a RegistryClient.
type ClientOption func(*RegistryClient)

// WithHTTPClient replaces the default client, e.g. for httptest servers.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(rc *RegistryClient) {
		if c != nil {
			rc.httpClient = c
		}
	}
}

// NewRegistryClient builds a client. timeout bounds every call.
func NewRegistryClient(baseURL, apiKey string, timeout time.Duration, opts ...ClientOption) *RegistryClient {
	c := &RegistryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup asks the registry about one identity number. A 404 is a definitive
// "not valid" answer, not an error.
func (c *RegistryClient) Lookup(ctx context.Context, identityNumber string, mode ports.ValidationMode) (*Lookup, error) {
	endpoint := fmt.Sprintf("%s/v1/identities/%s?mode=%s",
		c.baseURL, url.PathEscape(identityNumber), url.QueryEscape(queryMode(mode)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewRegistryError(ErrorInternal, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewRegistryError(ErrorOutage, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return c.parseLookup(identityNumber, body)
	case resp.StatusCode == http.StatusNotFound:
		return &Lookup{IdentityNumber: identityNumber, Valid: false, CheckedAt: c.now()}, nil
	default:
		return nil, statusError(resp.StatusCode)
	}
}

// Health reports whether GET /health answered 200.
func (c *RegistryClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return NewRegistryError(ErrorInternal, "failed to build request", err)
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}
	return nil
}

func (c *RegistryClient) parseLookup(identityNumber string, body []byte) (*Lookup, error) {
	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewRegistryError(ErrorBadData, "malformed registry response", err)
	}
	if parsed.Valid == nil {
		return nil, NewRegistryError(ErrorBadData, "registry response is missing valid", nil)
	}

	checkedAt, err := time.Parse(time.RFC3339, parsed.CheckedAt)
	if err != nil {
		checkedAt = c.now()
	}
	number := parsed.IdentityNumber
	if number == "" {
		number = identityNumber
	}
	return &Lookup{
		IdentityNumber: number,
		Valid:          *parsed.Valid,
		Country:        parsed.Country,
		CheckedAt:      checkedAt,
	}, nil
}

func queryMode(mode ports.ValidationMode) string {
	if mode == ports.ValidationModeDetailed {
		return ports.ValidationModeDetailed.String()
	}
	return ports.ValidationModeQuick.String()
}

func transportError(err error) *RegistryError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewRegistryError(ErrorTimeout, "registry call timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewRegistryError(ErrorTimeout, "registry call timed out", err)
	}
	return NewRegistryError(ErrorOutage, "registry unreachable", err)
}

func statusError(status int) *RegistryError {
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewRegistryError(ErrorAuthentication, msg, nil)
	case status == http.StatusTooManyRequests:
		return NewRegistryError(ErrorRateLimited, msg, nil)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return NewRegistryError(ErrorTimeout, msg, nil)
	case status >= 500:
		return NewRegistryError(ErrorOutage, msg, nil)
	default:
		return NewRegistryError(ErrorInternal, msg, nil)
	}
}
