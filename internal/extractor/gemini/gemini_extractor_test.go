package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recivo/internal/config"
	"recivo/internal/domain"
	"recivo/internal/extractor"
	"recivo/internal/extractor/gemini"
	"recivo/internal/port"
)

func testConfig() *config.ExtractorConfig {
	return &config.ExtractorConfig{
		Provider:     "gemini",
		APIKey:       "test-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  5,
	}
}

func geminiSuccessBody(pageJSON string) []byte {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": pageJSON},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestExtract_Success(t *testing.T) {
	var gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-goog-api-key")

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "contents")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiSuccessBody(`{
			"vendor_name": "Acme Foods",
			"invoice_number": "INV-42",
			"invoice_date": "2026-08-12",
			"items": [
				{"name": "Flour 10kg", "quantity": 4, "unit_price": 12.5},
				{"name": "Olive Oil 5L", "quantity": 2, "unit_price": 31.9, "matched_catalog_id": "cat-7"}
			]
		}`))
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	out, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("fake-jpeg"),
		ContentType: "image/jpeg",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "Acme Foods", out.VendorName)
	assert.Equal(t, "INV-42", out.InvoiceNumber)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Flour 10kg", out.Items[0].Name)
	assert.Equal(t, 4, out.Items[0].Quantity)
	assert.Equal(t, "cat-7", out.Items[1].MatchedCatalogID)
}

func TestExtract_MissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	e := gemini.NewExtractor(cfg)

	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorCredentials)
}

func TestExtract_UnsupportedContentType(t *testing.T) {
	e := gemini.NewExtractor(testConfig())

	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/tiff",
	})
	assert.Error(t, err)
}

func TestExtract_CredentialsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/png",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorCredentials)
}

func TestExtract_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractorQuota)

	var rateErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30.0, rateErr.RetryAfter.Seconds())
}

func TestExtract_SafetyBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback": {"blockReason": "SAFETY"}}`))
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorBlocked)
}

func TestExtract_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorBadOutput)
}

func TestExtract_MalformedModelOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiSuccessBody("this is not json"))
	}))
	defer srv.Close()

	e := gemini.NewExtractorWithEndpoint(testConfig(), srv.URL)
	_, err := e.Extract(context.Background(), port.ExtractInput{
		PageBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})
	assert.ErrorIs(t, err, domain.ErrExtractorBadOutput)
}
