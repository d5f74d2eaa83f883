package models

import "testing"

func TestClassifyDSP(t *testing.T) {
	tests := []struct {
		roas, trend string
		expected    string
	}{
		{"4.2", "12", DSPStatusScaling},
		{"3", "0", DSPStatusScaling},
		{"3.5", "-1", DSPStatusOptimizing},
		{"2.1", "8", DSPStatusOptimizing},
		{"5", "-5", DSPStatusSaturated},
		{"1.2", "-14.5", DSPStatusSaturated},
		{"0", "0", DSPStatusOptimizing},
	}

	for _, tt := range tests {
		t.Run(tt.roas+"@"+tt.trend, func(t *testing.T) {
			got := ClassifyDSP(d(tt.roas), d(tt.trend))
			if got != tt.expected {
				t.Errorf("ClassifyDSP(%s, %s) = %q, want %q", tt.roas, tt.trend, got, tt.expected)
			}
		})
	}
}
