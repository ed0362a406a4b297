package axons

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/etda"
	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// SubmitResult carries the gateway HTTP status and raw response body. A
// non-2xx status is a gateway verdict, not a transport error; callers decide
// how to record it.
type SubmitResult struct {
	HTTPStatus int
	Response   json.RawMessage
}

// Accepted reports whether the gateway acknowledged the document.
func (r *SubmitResult) Accepted() bool {
	return r.HTTPStatus >= 200 && r.HTTPStatus < 300
}

// StatusQuery identifies a previously submitted document for a status poll.
type StatusQuery struct {
	DocNumber     string `json:"docNumber"`
	DocDate       string `json:"docDate"`
	ComTaxID      string `json:"comTaxId"`
	Branch        string `json:"branch"`
	InternalDocNo string `json:"internalDocNo"`
	DocType       string `json:"docType"`
}

// GatewaySubmitter is the outbound port for document submission. The
// concrete implementation speaks HTTPS to the TSP; tests inject a mock.
type GatewaySubmitter interface {
	// Submit delivers a completed document on the channel's endpoint.
	Submit(ctx context.Context, doc *etda.Document, channel string) (*SubmitResult, error)
	// CheckStatus polls the processing status of a submitted document.
	CheckStatus(ctx context.Context, q StatusQuery) (*SubmitResult, error)
}

// Client implements GatewaySubmitter against the AXONS TSP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	tokens     *TokenSource
}

// NewClient builds the submission client.
func NewClient(baseURL, apiKey string, tokens *TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		tokens:     tokens,
	}
}

// Submit posts the document to the channel's endpoint with the Bearer token
// and API key. The gateway's verdict comes back in the result; only
// transport-level failures return an error.
func (c *Client) Submit(ctx context.Context, doc *etda.Document, channel string) (*SubmitResult, error) {
	endpoint, ok := pketax.SubmitEndpoints[channel]
	if !ok {
		return nil, fmt.Errorf("%w: unknown submission channel %q", domain.ErrInvalidInput, channel)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("axons: marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("axons: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", c.apiKey)

	return c.do(req)
}

// CheckStatus polls the document status endpoint.
func (c *Client) CheckStatus(ctx context.Context, q StatusQuery) (*SubmitResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("axons: marshal status query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pketax.StatusEndpoint,
		bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("axons: build status request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*SubmitResult, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGatewayFailure, err)
	}

	// Keep the body verbatim when it is not JSON so the journal still holds
	// what the gateway said.
	raw := json.RawMessage(body)
	if !json.Valid(body) {
		quoted, _ := json.Marshal(string(body))
		raw = quoted
	}

	return &SubmitResult{HTTPStatus: resp.StatusCode, Response: raw}, nil
}
