// Package axons implements the HTTP clients for the AXONS e-tax TSP: OAuth2
// token management, the Gen-PDF rendering API, and the document
// submission/status endpoints.
package axons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// TokenSource obtains and caches an OAuth2 access token via the
// client-credentials grant. Safe for concurrent use; the cached token is
// refreshed when it is within 60 seconds of expiry.
type TokenSource struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	apiKey       string

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource builds a token source for the TSP token endpoint.
func NewTokenSource(tokenURL, clientID, clientSecret, apiKey string) *TokenSource {
	return &TokenSource{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		apiKey:       apiKey,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a valid access token, requesting a new one when the cached
// token is absent or about to expire.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiry.Add(-60*time.Second)) {
		return ts.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("axons: build token request: %w", err)
	}
	req.SetBasicAuth(ts.clientID, ts.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-api-key", ts.apiKey)

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("axons: token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("axons: read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("axons: token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("axons: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("axons: token response has no access_token")
	}

	expiresIn := tr.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	ts.token = tr.AccessToken
	ts.expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	return ts.token, nil
}
