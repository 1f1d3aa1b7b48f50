package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"recivo/internal/config"
	"recivo/internal/domain"
	"recivo/internal/extractor"
	"recivo/internal/port"
)

const (
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Extractor implements port.LineItemExtractor using Google's Gemini API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates a Gemini-based line item extractor.
func NewExtractor(cfg *config.ExtractorConfig) *Extractor {
	return newExtractor(cfg, "")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractorConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ExtractorConfig, endpoint string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("gemini: %w: no API key configured", domain.ErrExtractorCredentials)
	}
	if len(input.PageBytes) == 0 {
		return nil, fmt.Errorf("gemini: empty page payload")
	}

	mimeType, err := toGeminiMimeType(input.ContentType)
	if err != nil {
		return nil, err
	}

	prompt := extractor.BuildInvoicePrompt(input.Catalog)
	encoded := base64.StdEncoding.EncodeToString(input.PageBytes)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      encoded,
						},
					},
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("gemini: %w (status %d)", domain.ErrExtractorCredentials, resp.StatusCode)
	case http.StatusTooManyRequests:
		return nil, extractor.NewRateLimitError("gemini", extractor.ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
	default:
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return parseResponse(respBody, e.model)
}

func toGeminiMimeType(contentType string) (string, error) {
	switch contentType {
	case "application/pdf", "image/jpeg", "image/png":
		return contentType, nil
	default:
		return "", fmt.Errorf("unsupported content type for extraction: %s", contentType)
	}
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// extractedPage models the JSON the model is prompted to return for one page.
type extractedPage struct {
	VendorName    string `json:"vendor_name"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	Items         []struct {
		Name             string           `json:"name"`
		Quantity         int              `json:"quantity"`
		UnitPrice        *decimal.Decimal `json:"unit_price"`
		Total            *decimal.Decimal `json:"total"`
		MatchedCatalogID string           `json:"matched_catalog_id"`
	} `json:"items"`
}

func parseResponse(body []byte, model string) (*port.ExtractOutput, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("gemini: %w (reason %s)", domain.ErrExtractorBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: %w: no candidates", domain.ErrExtractorBadOutput)
	}
	if resp.Candidates[0].FinishReason == "SAFETY" {
		return nil, fmt.Errorf("gemini: %w (finish reason SAFETY)", domain.ErrExtractorBlocked)
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: %w: no parts", domain.ErrExtractorBadOutput)
	}

	text := resp.Candidates[0].Content.Parts[0].Text

	var page extractedPage
	if err := json.Unmarshal([]byte(text), &page); err != nil {
		return nil, fmt.Errorf("gemini: %w: %v (raw: %s)", domain.ErrExtractorBadOutput, err, truncate(text, 500))
	}

	items := make([]domain.ExtractedLineItem, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, domain.ExtractedLineItem{
			Name:             it.Name,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Total:            it.Total,
			MatchedCatalogID: it.MatchedCatalogID,
		})
	}

	return &port.ExtractOutput{
		VendorName:    page.VendorName,
		InvoiceNumber: page.InvoiceNumber,
		InvoiceDate:   page.InvoiceDate,
		Items:         items,
		ModelUsed:     model,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
