// Package receipt turns a photographed receipt into bill items.
//
// Extraction itself is delegated to an external model (see GeminiExtractor);
// this package owns the prompt, the response format and its validation.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mmynk/splitbill/internal/models"
)

var (
	// ErrEmptyImage is returned when no image data is supplied.
	ErrEmptyImage = errors.New("receipt image cannot be empty")

	// ErrInvalidResponse is returned when the model output is not a usable receipt.
	ErrInvalidResponse = errors.New("invalid receipt response")
)

// Receipt is the structured content of a receipt.
type Receipt struct {
	Items         []models.Item
	Tax           *float64
	ServiceCharge *float64
}

// Extractor extracts a Receipt from an image.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) (*Receipt, error)
}

type wireItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type wireReceipt struct {
	Items         []wireItem `json:"items"`
	Tax           *float64   `json:"tax"`
	ServiceCharge *float64   `json:"serviceCharge"`
}

// ParseReceipt decodes model output into a Receipt. Output wrapped in prose
// or a markdown fence is accepted as long as it contains one JSON object.
// Items without a name, with a negative quantity or with an unusable price
// are dropped; a missing quantity counts as 1.
func ParseReceipt(text string) (*Receipt, error) {
	var wire wireReceipt
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidResponse)
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	r := &Receipt{
		Items:         make([]models.Item, 0, len(wire.Items)),
		Tax:           usable(wire.Tax),
		ServiceCharge: usable(wire.ServiceCharge),
	}
	for _, it := range wire.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || it.Quantity < 0 || it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			continue
		}
		qty := int(math.Round(it.Quantity))
		if qty == 0 {
			qty = 1
		}
		r.Items = append(r.Items, models.Item{Name: name, Quantity: qty, UnitPrice: it.Price})
	}
	if len(r.Items) == 0 {
		return nil, fmt.Errorf("%w: no items found", ErrInvalidResponse)
	}
	return r, nil
}

func usable(v *float64) *float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
