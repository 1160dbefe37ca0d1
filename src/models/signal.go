package models

import "fmt"

type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

var ErrInvalidConfidence = fmt.Errorf("confidence must be between 0.0 and 1.0")

// Signal is the output of a strategy for one bar: an action, how strongly
// the strategy believes in it, and the price it was evaluated at.
type Signal struct {
	Type       SignalType             `json:"type"`
	Confidence float64                `json:"confidence"`
	Price      float64                `json:"price"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

func NewSignal(signalType SignalType, confidence float64, price float64, metadata map[string]interface{}) (*Signal, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return nil, fmt.Errorf("%w: got %.4f", ErrInvalidConfidence, confidence)
	}

	return &Signal{
		Type:       signalType,
		Confidence: confidence,
		Price:      price,
		Metadata:   metadata,
	}, nil
}

// NewHoldSignal is the zero-confidence signal strategies fall back to when
// they have nothing to say about a bar.
func NewHoldSignal(price float64) *Signal {
	return &Signal{
		Type:       SignalHold,
		Confidence: 0.0,
		Price:      price,
	}
}
