package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const extractionPrompt = `Extract every food and drink item from this receipt image.

Respond with a single JSON object and nothing else:
{"items": [{"name": string, "quantity": number, "price": number}], "tax": number or null, "serviceCharge": number or null}

Rules:
- price is the UNIT price, never the line total. For "2 Ayam Geprek @20.000" quantity is 2 and price is 20000.
- If a line shows a quantity and a line total without "@", price is total divided by quantity.
- If a line shows only a price, quantity is 1.
- Tax may appear as tax, pajak, PPN or VAT. Service charge may appear as service, service charge or layanan.
- Use null for tax or serviceCharge when absent.
- Strip currency symbols and thousands separators (Rp, IDR, dots, commas, spaces).
- Skip headers, footers, subtotals and totals.`

// generator is the subset of the genai Models API used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiExtractor implements Extractor with Google's Gemini API.
type GeminiExtractor struct {
	logger *slog.Logger
	models generator
	model  string
}

// NewGeminiExtractor creates a GeminiExtractor for the given API key and model.
func NewGeminiExtractor(ctx context.Context, logger *slog.Logger, apiKey, model string) (*GeminiExtractor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{logger: logger, models: client.Models, model: model}, nil
}

// Extract sends the image to Gemini and parses the items it returns.
func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) (*Receipt, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	g.logger.InfoContext(ctx, "Extracting receipt",
		"model", g.model,
		"image_bytes", len(image),
		"mime_type", mimeType)

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: extractionPrompt},
			{InlineData: &genai.Blob{Data: image, MIMEType: mimeType}},
		},
	}}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	r, err := ParseReceipt(text)
	if err != nil {
		g.logger.WarnContext(ctx, "Unusable receipt response", "error", err, "response_length", len(text))
		return nil, err
	}
	g.logger.InfoContext(ctx, "Receipt extracted", "items", len(r.Items))
	return r, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: blocked by safety filters", ErrInvalidResponse)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
