package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{256, 100},
		{128, 50},
		{0, 0},
		{1, 0.39},
		{200, 78.13},
		{255.99, 100},
		{300, 100},
		{-4, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeScore(tt.raw), "raw=%v", tt.raw)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "100 %", FormatPercent(NormalizeScore(256)))
	assert.Equal(t, "50.00 %", FormatPercent(NormalizeScore(128)))
	assert.Equal(t, "0.00 %", FormatPercent(NormalizeScore(0)))
	assert.Equal(t, "78.13 %", FormatPercent(NormalizeScore(200)))
	assert.Equal(t, "99.99 %", FormatPercent(99.99))
}
