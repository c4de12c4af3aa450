package ai

import "testing"

func TestCost(t *testing.T) {
	prices := DefaultPrices()

	tests := []struct {
		model      string
		prompt     int
		completion int
		want       float64
	}{
		{model: "gpt-5-mini", prompt: 1000, completion: 500, want: 0.00125},
		{model: "gpt-5", prompt: 1_000_000, completion: 1_000_000, want: 11.25},
		{model: "gpt-5-nano", prompt: 4, completion: 2, want: 0.000001},
		{model: "mystery-model", prompt: 1000, completion: 1000, want: 0},
	}

	for _, tt := range tests {
		if got := prices.Cost(tt.model, tt.prompt, tt.completion); got != tt.want {
			t.Fatalf("Cost(%s, %d, %d) = %v, want %v", tt.model, tt.prompt, tt.completion, got, tt.want)
		}
	}
}

func TestPricesWith(t *testing.T) {
	base := DefaultPrices()
	merged := base.With(Prices{"local-llm": {Input: 0, Output: 0}, "gpt-5": {Input: 2, Output: 20}})

	if merged["gpt-5"].Input != 2 {
		t.Fatalf("override not applied: %+v", merged["gpt-5"])
	}
	if base["gpt-5"].Input != 1.25 {
		t.Fatalf("base table mutated: %+v", base["gpt-5"])
	}
	if _, ok := merged["local-llm"]; !ok {
		t.Fatalf("new model missing")
	}
}
