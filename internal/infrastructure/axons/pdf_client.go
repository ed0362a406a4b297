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

	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/domain/etax"
	pketax "github.com/jhoicas/etax-pipeline/pkg/etax"
)

// PDFClient calls the Gen-PDF rendering API with the aggregated invoice and
// returns the rendered document as base64.
type PDFClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewPDFClient builds the rendering client. The 60 s timeout matches the
// rendering API's worst observed latency.
func NewPDFClient(url, apiKey string) *PDFClient {
	return &PDFClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		url:        url,
		apiKey:     apiKey,
	}
}

// RenderInvoice posts the invoice and extracts the base64 PDF from the
// response. The API wraps the payload in a "pdf", "data", or "document" key,
// or returns the bare string; all four shapes are accepted.
func (c *PDFClient) RenderInvoice(ctx context.Context, inv *entity.Invoice) (string, error) {
	prepared := prepareForRender(inv)

	payload, err := json.Marshal(prepared)
	if err != nil {
		return "", fmt.Errorf("axons: marshal invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("axons: build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("axons: render request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", fmt.Errorf("axons: read render response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("axons: render API returned %d: %s", resp.StatusCode, truncate(body, 512))
	}

	return extractPDF(body)
}

// prepareForRender returns a copy of the invoice with the fields the
// rendering API requires for the QR code filled in: padded tax IDs, DOC_TYPE
// derived from the template, and SAP/reference fallbacks.
func prepareForRender(inv *entity.Invoice) *entity.Invoice {
	out := &entity.Invoice{
		Hdr: append([]entity.InvoiceHeader(nil), inv.Hdr...),
		Dtl: inv.Dtl,
	}
	if len(out.Hdr) == 0 {
		return out
	}

	hdr := &out.Hdr[0]
	hdr.ComTaxID = etax.PadTaxID(hdr.ComTaxID)
	hdr.TaxID = etax.PadTaxID(hdr.TaxID)
	if hdr.DocType == "" {
		dt, ok := pketax.PDFDocTypes[strings.TrimSpace(hdr.PrintFormTmpl)]
		if !ok {
			dt = pketax.PDFDocTypes[pketax.TemplateTaxInvoice]
		}
		hdr.DocType = dt
	}
	if hdr.CVCodeSAP == "" {
		hdr.CVCodeSAP = hdr.CVCode
	}
	if hdr.ReferenceNumber == "" {
		hdr.ReferenceNumber = hdr.DocNumber
	}
	return out
}

// extractPDF pulls the base64 payload out of the response body.
func extractPDF(body []byte) (string, error) {
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil {
		for _, key := range []string{"pdf", "data", "document"} {
			raw, ok := wrapped[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				return s, nil
			}
		}
		return "", fmt.Errorf("axons: render response has no pdf/data/document field")
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil && bare != "" {
		return bare, nil
	}

	return "", fmt.Errorf("axons: unexpected render response shape: %s", truncate(body, 256))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
