package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raine/ecoinventory-bot/internal/inventory"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.50
	geminiOutputPricePerMillion = 3.00
)

const imageMIMEType = "image/jpeg"

const insightsPrompt = `Acting as an expert inventory manager, analyze this inventory data and provide 3 key insights or recommendations for optimization:

%s

Provide your response in a clear, concise bullet-point format.`

const imageAnalysisPrompt = "Analyze this product image and provide: name, category, estimated price, and a short description. Return as JSON."

// imageAnalysisSchema constrains the vision response to the ImageAnalysis shape.
var imageAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":           {Type: genai.TypeString},
		"category":       {Type: genai.TypeString},
		"estimatedPrice": {Type: genai.TypeNumber},
		"description":    {Type: genai.TypeString},
	},
	Required:         []string{"name", "category", "estimatedPrice", "description"},
	PropertyOrdering: []string{"name", "category", "estimatedPrice", "description"},
}

// contentGenerator is the part of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements InsightGenerator and ImageClassifier with Google's
// Gemini API. Every call is a single request; nothing is cached or retried.
type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient creates a Gemini client authenticated with apiKey. An empty
// model selects DefaultModel. The key is not validated until the first call.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(models contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{models: models, model: model}
}

// ProductSummary renders one summary line per product, joined by newlines.
func ProductSummary(products []inventory.Product) string {
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = p.SummaryLine()
	}
	return strings.Join(lines, "\n")
}

// BuildInsightsPrompt embeds the product summary in the insights instruction.
func BuildInsightsPrompt(products []inventory.Product) string {
	return fmt.Sprintf(insightsPrompt, ProductSummary(products))
}

// GenerateInsights asks the model for three optimization insights about the
// given products. The returned text is empty when the model answered with
// nothing.
func (g *GeminiClient) GenerateInsights(ctx context.Context, products []inventory.Product) (string, error) {
	if len(products) == 0 {
		return "", ErrNoProducts
	}

	contents := []*genai.Content{
		genai.NewContentFromText(BuildInsightsPrompt(products), genai.RoleUser),
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	usage := usageOf(result)
	log.Info().
		Str("model", g.model).
		Int("productCount", len(products)).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("insights llm call")

	return responseText(result), nil
}

// ClassifyImage asks the vision model to identify the product in a JPEG
// photo. An empty answer yields an empty analysis; an answer that does not
// match the schema yields ErrAnalysisFailed.
func (g *GeminiClient) ClassifyImage(ctx context.Context, image []byte) (*ImageAnalysis, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, imageMIMEType),
		genai.NewPartFromText(imageAnalysisPrompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   imageAnalysisSchema,
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	text := responseText(result)
	analysis, err := ParseImageAnalysis(text)
	if err != nil {
		log.Warn().Err(err).Str("response", text).Msg("vision response did not match schema")
		return nil, err
	}

	usage := usageOf(result)
	log.Info().
		Str("model", g.model).
		Int("imageBytes", len(image)).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Str("name", analysis.Name).
		Msg("vision llm call")

	return analysis, nil
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	if contentType := http.DetectContentType(image); !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: detected %s", ErrInvalidImage, contentType)
	}
	return nil
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	if c := result.Candidates[0].Content; c == nil || len(c.Parts) == 0 {
		return ""
	}
	return result.Text()
}

func usageOf(result *genai.GenerateContentResponse) Usage {
	usage := Usage{}
	if result == nil || result.UsageMetadata == nil {
		return usage
	}
	usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
	usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
	usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
	usage.CostUSD = calculateGeminiCost(usage.InputTokens, usage.OutputTokens, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	return usage
}

func calculateGeminiCost(inputTokens, outputTokens int64, inputPrice, outputPrice float64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * inputPrice
	outputCost := float64(outputTokens) / 1_000_000 * outputPrice
	return inputCost + outputCost
}
