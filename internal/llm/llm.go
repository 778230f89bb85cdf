package llm

import (
	"context"
	"errors"

	"github.com/raine/ecoinventory-bot/internal/inventory"
)

var (
	// ErrRequestFailed wraps transport and model errors returned by the API.
	ErrRequestFailed = errors.New("ai request failed")
	// ErrAnalysisFailed means the model answered with text that does not
	// match the expected image analysis schema.
	ErrAnalysisFailed = errors.New("image analysis failed")
	ErrNoProducts     = errors.New("no products to analyze")
	ErrInvalidImage   = errors.New("invalid image data")
)

// ImageAnalysis is the structured guess of a product photo's identity.
// Keys the model left out decode to zero values.
type ImageAnalysis struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	EstimatedPrice float64 `json:"estimatedPrice"`
	Description    string  `json:"description"`
}

// ScanResult converts the analysis to the inventory's scan input.
func (a ImageAnalysis) ScanResult() inventory.ScanResult {
	return inventory.ScanResult{
		Name:           a.Name,
		Category:       a.Category,
		EstimatedPrice: a.EstimatedPrice,
		Description:    a.Description,
	}
}

// Usage contains token usage and cost information.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// InsightGenerator produces textual optimization insights for an inventory.
type InsightGenerator interface {
	// GenerateInsights returns the model's report, which may be empty.
	GenerateInsights(ctx context.Context, products []inventory.Product) (string, error)
}

// ImageClassifier identifies the product shown in a photo.
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, image []byte) (*ImageAnalysis, error)
}
