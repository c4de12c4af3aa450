package ai

import "math"

// Price is the USD cost per million tokens.
type Price struct {
	Input  float64 `mapstructure:"input"`
	Output float64 `mapstructure:"output"`
}

// Prices maps model identifiers to their token prices.
type Prices map[string]Price

// DefaultPrices returns the built-in price table.
func DefaultPrices() Prices {
	return Prices{
		"gpt-5":                 {Input: 1.25, Output: 10.00},
		"gpt-5-mini":            {Input: 0.25, Output: 2.00},
		"gpt-5-nano":            {Input: 0.05, Output: 0.40},
		"gemini-2.5-pro":        {Input: 1.25, Output: 10.00},
		"gemini-2.5-flash":      {Input: 0.30, Output: 2.50},
		"gemini-2.5-flash-lite": {Input: 0.10, Output: 0.40},
	}
}

// With returns a copy of p with overrides applied.
func (p Prices) With(overrides Prices) Prices {
	out := make(Prices, len(p)+len(overrides))
	for model, price := range p {
		out[model] = price
	}
	for model, price := range overrides {
		out[model] = price
	}
	return out
}

// Cost computes the USD cost of a call, rounded to 6 decimals. Unknown models cost 0.
func (p Prices) Cost(model string, promptTokens, completionTokens int) float64 {
	price, ok := p[model]
	if !ok {
		return 0
	}
	cost := float64(promptTokens)*price.Input/1e6 + float64(completionTokens)*price.Output/1e6
	return round(cost, 6)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
