package components

import (
	"math"
	"testing"
)

func TestSignalEffective(t *testing.T) {
	tests := []struct {
		name string
		sig  Signal
		want float32
	}{
		{"neutral", NeutralSignal(), 1},
		{"lost keeps last value out", Signal{Detected: false, Openness: 0.2}, 1},
		{"detected mid", Signal{Detected: true, Openness: 0.35}, 0.35},
		{"detected closed", Signal{Detected: true, Openness: 0}, 0},
		{"clamp low", Signal{Detected: true, Openness: -0.5}, 0},
		{"clamp high", Signal{Detected: true, Openness: 1.7}, 1},
		{"nan", Signal{Detected: true, Openness: float32(math.NaN())}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Effective(); got != tt.want {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}
}
