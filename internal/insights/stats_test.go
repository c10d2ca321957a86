package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finsight/backend/internal/model"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 5.0, Mean([]float64{5}))
	assert.Equal(t, 20.0, Mean([]float64{10, 20, 30}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{7, 7, 7}))
	// Population stddev of {2,4,4,4,5,5,7,9} is exactly 2.
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))
	assert.InDelta(t, 0.4, CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestTrendSlope(t *testing.T) {
	assert.Equal(t, 0.0, TrendSlope(nil))
	assert.Equal(t, 0.0, TrendSlope([]float64{10}))
	assert.Equal(t, 0.0, TrendSlope([]float64{10, 10, 10}))

	// {10,20,30}: slope 10, mean 20 -> normalized 50%/step.
	assert.InDelta(t, 50, TrendSlope([]float64{10, 20, 30}), 1e-9)
	assert.InDelta(t, -50, TrendSlope([]float64{30, 20, 10}), 1e-9)
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		slope float64
		want  model.TrendDirection
	}{
		{5.01, model.TrendIncreasing},
		{5, model.TrendStable},
		{0, model.TrendStable},
		{-5, model.TrendStable},
		{-5.01, model.TrendDecreasing},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyTrend(tc.slope), "slope %v", tc.slope)
	}
}
