package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("normalizes to unit length", func(t *testing.T) {
		result := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, result[0], 1e-6)
		assert.InDelta(t, 0.8, result[1], 1e-6)

		var magnitude float64
		for _, v := range result {
			magnitude += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
	})

	t.Run("unit vector unchanged", func(t *testing.T) {
		result := NormalizeVector([]float32{1, 0, 0})
		assert.Equal(t, []float32{1, 0, 0}, result)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		result := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, result)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		input := []float32{3, 4}
		NormalizeVector(input)
		assert.Equal(t, []float32{3, 4}, input)
	})
}
