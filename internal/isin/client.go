// Package isin talks to the external ISIN directory. The enrichment core
// only depends on the Fetcher capability; the HTTP client and the cache
// decorator are interchangeable implementations.
package isin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Fetcher is the external collaborator capability: fetch the ISIN list for
// one issuer. Implementations may block (network latency) and signal failure
// with a *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, issuerID int64) ([]string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, issuerID int64) ([]string, error)

func (f FetcherFunc) Fetch(ctx context.Context, issuerID int64) ([]string, error) {
	return f(ctx, issuerID)
}

// DirectoryClient fetches ISIN lists over HTTP from the directory service.
type DirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// DirectoryOption configures a DirectoryClient.
type DirectoryOption func(*DirectoryClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) DirectoryOption {
	return func(d *DirectoryClient) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithTimeout sets the per-call timeout. A hung directory call must not pin
// a worker slot past this bound.
func WithTimeout(timeout time.Duration) DirectoryOption {
	return func(d *DirectoryClient) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDirectoryClient constructs an HTTP directory client.
func NewDirectoryClient(baseURL string, opts ...DirectoryOption) *DirectoryClient {
	client := &DirectoryClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type isinsResponse struct {
	ISINs []string `json:"isins"`
}

// Fetch retrieves the ISIN list for an issuer. Non-2xx responses and
// transport failures are normalized into *FetchError.
func (d *DirectoryClient) Fetch(ctx context.Context, issuerID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/issuers/%d/isins", d.baseURL, issuerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewFetchError(ErrorInternal, issuerID, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewFetchError(ErrorTimeout, issuerID, "directory call timed out", err)
		}
		return nil, NewFetchError(ErrorDirectoryOutage, issuerID, "directory unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewFetchError(ErrorNotFound, issuerID, "issuer unknown to directory", nil)
	case resp.StatusCode >= 500:
		return nil, NewFetchError(ErrorDirectoryOutage, issuerID,
			fmt.Sprintf("directory returned status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewFetchError(ErrorInternal, issuerID,
			fmt.Sprintf("directory returned status %d", resp.StatusCode), nil)
	}

	var payload isinsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewFetchError(ErrorBadData, issuerID, "malformed directory payload", err)
	}
	if payload.ISINs == nil {
		payload.ISINs = []string{}
	}
	return payload.ISINs, nil
}
