// Package extractor implements the external text/vision item extraction
// collaborator on top of Google Gemini. Extraction is best-effort: every
// failure mode surfaces as an error for the resolver to swallow.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/contractoros/backend/internal/domain"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiExtractor extracts structured material items from free text or
// a photographed materials list.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates a Gemini-backed extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (e *GeminiExtractor) Close() error {
	return e.client.Close()
}

// Extract asks the model for a JSON array of material items. Any API
// error or malformed response returns ErrExtractionFailed; the caller is
// expected to fall back to rule-based resolution.
func (e *GeminiExtractor) Extract(ctx context.Context, text string, image []byte, knownSKUs []string) ([]domain.ItemDraft, error) {
	model := e.client.GenerativeModel(e.model)
	model.SetTemperature(0.1) // consistent structured output
	model.ResponseMIMEType = "application/json"

	parts := []genai.Part{genai.Text(buildPrompt(text, knownSKUs))}
	if len(image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", image))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	raw, err := textFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var drafts []domain.ItemDraft
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", domain.ErrExtractionFailed, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: empty item list", domain.ErrExtractionFailed)
	}

	return drafts, nil
}

// buildPrompt constructs the extraction prompt, constraining SKU hints to
// the known catalog ids.
func buildPrompt(text string, knownSKUs []string) string {
	var sb strings.Builder

	sb.WriteString("You read contractor material lists and extract structured line items.\n\n")
	sb.WriteString("Return ONLY a JSON array matching this exact structure:\n")
	sb.WriteString(`[{"name": string, "qty": number, "unit": string, "sku_hint": string}]` + "\n\n")
	sb.WriteString("sku_hint must be one of these catalog ids (or \"\" if none fits):\n")
	sb.WriteString(strings.Join(knownSKUs, ", "))
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- Extract items directly from the input, do not invent or summarize.\n")
	sb.WriteString("- qty defaults to 1 when the input gives no quantity.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no explanation.\n")

	if text != "" {
		sb.WriteString("\nInput:\n")
		sb.WriteString(text)
	}
	return sb.String()
}

// textFromResponse flattens the first candidate's text parts.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrExtractionFailed)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", domain.ErrExtractionFailed)
	}
	return sb.String(), nil
}

// cleanJSONBlock strips markdown code fences that models sometimes wrap
// around JSON even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	} else {
		return text
	}

	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
