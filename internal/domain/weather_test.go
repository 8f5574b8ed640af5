package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUV(t *testing.T) {
	tests := []struct {
		index float64
		want  UVSeverity
	}{
		{0, UVLow},
		{2.9, UVLow},
		{3, UVModerate},
		{5.9, UVModerate},
		{6, UVHigh},
		{7.9, UVHigh},
		{8, UVVeryHigh},
		{10.9, UVVeryHigh},
		{11, UVExtreme},
		{14, UVExtreme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyUV(tt.index), "uv=%v", tt.index)
	}
}

func TestIconForCode(t *testing.T) {
	assert.Equal(t, "☀️", IconForCode(0))
	assert.Equal(t, "☁️", IconForCode(3))
	assert.Equal(t, "🌧️", IconForCode(61))
	assert.Equal(t, "🌧️", IconForCode(81))
	assert.Equal(t, "❄️", IconForCode(71))
	assert.Equal(t, "⛈️", IconForCode(95))
}
