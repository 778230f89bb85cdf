package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raine/ecoinventory-bot/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// jpegHeader is enough for content sniffing to detect image/jpeg.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type generatorMock struct {
	mock.Mock
}

func (m *generatorMock) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 20,
			TotalTokenCount:      120,
		},
	}
}

func seededProducts() []inventory.Product {
	return inventory.NewSeededState(time.Now()).Products()
}

func promptOf(contents []*genai.Content) string {
	var sb strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func TestProductSummary(t *testing.T) {
	products := seededProducts()

	summary := ProductSummary(products)
	lines := strings.Split(summary, "\n")

	require.Len(t, lines, len(products))
	assert.Equal(t, "Eco Water Bottle (Accessories): Qty 45, MinStock 20, Price $25.99", lines[0])
	assert.Equal(t, "Solar Charger (Electronics): Qty 8, MinStock 10, Price $89", lines[3])
	for i, p := range products {
		assert.Contains(t, lines[i], p.Name)
		assert.Contains(t, lines[i], p.Category)
		assert.Contains(t, lines[i], inventory.FormatPrice(p.Price))
	}
}

func TestBuildInsightsPrompt(t *testing.T) {
	prompt := BuildInsightsPrompt(seededProducts())

	assert.True(t, strings.HasPrefix(prompt, "Acting as an expert inventory manager"))
	assert.Contains(t, prompt, "3 key insights")
	assert.Contains(t, prompt, "Bamboo Toothbrush (Health): Qty 120, MinStock 50, Price $4.99")
	assert.True(t, strings.HasSuffix(prompt, "bullet-point format."))
}

func TestGenerateInsights_ReturnsText(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, DefaultModel,
		mock.MatchedBy(func(c []*genai.Content) bool {
			return strings.Contains(promptOf(c), "Organic Cotton Tee (Apparel): Qty 12, MinStock 15, Price $19.5")
		}),
		(*genai.GenerateContentConfig)(nil),
	).Return(textResponse("- Restock solar chargers"), nil).Once()

	text, err := client.GenerateInsights(context.Background(), seededProducts())
	require.NoError(t, err)
	assert.Equal(t, "- Restock solar chargers", text)
	gen.AssertExpectations(t)
}

func TestGenerateInsights_EmptyProducts(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	_, err := client.GenerateInsights(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoProducts)
	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateInsights_EmptyResponse(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&genai.GenerateContentResponse{}, nil).Once()

	text, err := client.GenerateInsights(context.Background(), seededProducts())
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestGenerateInsights_TransportFailure(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	_, err := client.GenerateInsights(context.Background(), seededProducts())
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGenerateInsights_NoCaching(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")
	products := seededProducts()

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("insight"), nil).Twice()

	_, err := client.GenerateInsights(context.Background(), products)
	require.NoError(t, err)
	_, err = client.GenerateInsights(context.Background(), products)
	require.NoError(t, err)

	gen.AssertNumberOfCalls(t, "GenerateContent", 2)
}

func TestClassifyImage_SendsSchemaAndImage(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "custom-model")

	gen.On("GenerateContent", mock.Anything, "custom-model",
		mock.MatchedBy(func(c []*genai.Content) bool {
			if len(c) != 1 || len(c[0].Parts) != 2 {
				return false
			}
			blob := c[0].Parts[0].InlineData
			return blob != nil && blob.MIMEType == "image/jpeg" &&
				c[0].Parts[1].Text == imageAnalysisPrompt
		}),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg != nil && cfg.ResponseMIMEType == "application/json" &&
				cfg.ResponseSchema != nil &&
				cfg.ResponseSchema.Type == genai.TypeObject &&
				len(cfg.ResponseSchema.Required) == 4 &&
				cfg.ResponseSchema.Properties["estimatedPrice"].Type == genai.TypeNumber
		}),
	).Return(textResponse(`{"name":"Water Bottle","category":"Accessories","estimatedPrice":12.5,"description":"A bottle"}`), nil).Once()

	analysis, err := client.ClassifyImage(context.Background(), jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, &ImageAnalysis{
		Name:           "Water Bottle",
		Category:       "Accessories",
		EstimatedPrice: 12.5,
		Description:    "A bottle",
	}, analysis)
	gen.AssertExpectations(t)
}

func TestClassifyImage_EmptyResponse(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&genai.GenerateContentResponse{}, nil).Once()

	analysis, err := client.ClassifyImage(context.Background(), jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, &ImageAnalysis{}, analysis)
}

func TestClassifyImage_MalformedResponse(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("I think this is a bottle"), nil).Once()

	_, err := client.ClassifyImage(context.Background(), jpegHeader)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
}

func TestClassifyImage_TransportFailure(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("503 unavailable")).Once()

	_, err := client.ClassifyImage(context.Background(), jpegHeader)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.NotErrorIs(t, err, ErrAnalysisFailed)
}

func TestClassifyImage_InvalidImage(t *testing.T) {
	gen := new(generatorMock)
	client := newGeminiClient(gen, "")

	_, err := client.ClassifyImage(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = client.ClassifyImage(context.Background(), []byte("plain text, not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculateGeminiCost(t *testing.T) {
	cost := calculateGeminiCost(1_000_000, 1_000_000, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	assert.InDelta(t, 3.50, cost, 1e-9)
}
