package usecasees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantize(t *testing.T) {
	t.Run("floors to the increment", func(t *testing.T) {
		assert.InDelta(t, 100.12, quantize(100.127, 0.01), 1e-9)
	})

	t.Run("zero stays zero", func(t *testing.T) {
		assert.Equal(t, float64(0), quantize(0, 0.01))
	})

	t.Run("already aligned value is unchanged", func(t *testing.T) {
		assert.InDelta(t, 100.13, quantize(100.13, 0.01), 1e-9)
	})

	t.Run("non positive step passes through", func(t *testing.T) {
		assert.Equal(t, 100.127, quantize(100.127, 0))
	})

	t.Run("integer step", func(t *testing.T) {
		assert.Equal(t, float64(27300), quantize(27321.5, 100))
	})
}

func TestStepDecimals(t *testing.T) {
	assert.Equal(t, 2, stepDecimals(0.01))
	assert.Equal(t, 3, stepDecimals(0.001))
	assert.Equal(t, 0, stepDecimals(1))
	assert.Equal(t, 0, stepDecimals(0))
}

func TestFormatQuantized(t *testing.T) {
	assert.Equal(t, "100.12", formatQuantized(100.127, 0.01))
	assert.Equal(t, "0.004", formatQuantized(0.0049, 0.001))
	assert.Equal(t, "27300", formatQuantized(27321.5, 100))
}
