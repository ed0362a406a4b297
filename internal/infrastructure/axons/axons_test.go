package axons

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/infrastructure/etda"
)

func TestTokenSourceCachesToken(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostFormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	ts := NewTokenSource(srv.URL, "client", "secret", "key")

	tok, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Second call hits the cache.
	tok, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTokenSourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad client", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ts := NewTokenSource(srv.URL, "c", "s", "k")
	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestExtractPDFShapes(t *testing.T) {
	for _, body := range []string{
		`{"pdf":"QkFTRTY0"}`,
		`{"data":"QkFTRTY0"}`,
		`{"document":"QkFTRTY0"}`,
		`"QkFTRTY0"`,
	} {
		got, err := extractPDF([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, "QkFTRTY0", got, body)
	}

	_, err := extractPDF([]byte(`{"unexpected":"x"}`))
	assert.Error(t, err)
	_, err = extractPDF([]byte(`12345`))
	assert.Error(t, err)
}

func TestPrepareForRenderFillsDefaults(t *testing.T) {
	inv := &entity.Invoice{
		Hdr: []entity.InvoiceHeader{{
			ComTaxID:      "994000123456",
			TaxID:         "105551234567",
			DocNumber:     "INV25640001",
			CVCode:        "C001",
			PrintFormTmpl: "2",
		}},
	}

	out := prepareForRender(inv)
	hdr := out.Header()
	require.NotNil(t, hdr)

	assert.Equal(t, "0994000123456", hdr.ComTaxID)
	assert.Equal(t, "0105551234567", hdr.TaxID)
	assert.Equal(t, "04", hdr.DocType) // credit note
	assert.Equal(t, "C001", hdr.CVCodeSAP)
	assert.Equal(t, "INV25640001", hdr.ReferenceNumber)

	// The input invoice stays untouched.
	assert.Equal(t, "994000123456", inv.Hdr[0].ComTaxID)
	assert.Equal(t, "", inv.Hdr[0].DocType)
}

func TestSubmitUnknownChannel(t *testing.T) {
	c := NewClient("https://gw.example.com", "k", NewTokenSource("https://gw.example.com/token", "c", "s", "k"))
	_, err := c.Submit(context.Background(), &etda.Document{}, "bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmitPostsToChannelEndpoint(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 600})
	}))
	defer tokenSrv.Close()

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submit/taxinvoice", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer gw.Close()

	c := NewClient(gw.URL, "key", NewTokenSource(tokenSrv.URL, "c", "s", "key"))
	res, err := c.Submit(context.Background(), &etda.Document{}, "taxinvoice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.True(t, res.Accepted())
	assert.JSONEq(t, `{"status":"accepted"}`, string(res.Response))
}

func TestSubmitRejectionIsNotATransportError(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok"})
	}))
	defer tokenSrv.Close()

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer gw.Close()

	c := NewClient(gw.URL, "key", NewTokenSource(tokenSrv.URL, "c", "s", "key"))
	res, err := c.Submit(context.Background(), &etda.Document{}, "creditnote")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, res.HTTPStatus)
	assert.False(t, res.Accepted())
	// Non-JSON bodies are preserved as a JSON string.
	assert.Equal(t, `"not json at all"`, string(res.Response))
}
