package fasttree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinMapperDistinctValues(t *testing.T) {
	m := newBinMapper([]float64{3, 1, 2, 2, 1}, 255)

	require.Equal(t, 3, m.numBins())
	assert.Equal(t, 1.5, m.threshold(0))
	assert.Equal(t, 2.5, m.threshold(1))
	assert.True(t, math.IsInf(m.threshold(2), 1))

	assert.Equal(t, 0, m.bin(1))
	assert.Equal(t, 0, m.bin(1.5))
	assert.Equal(t, 1, m.bin(2))
	assert.Equal(t, 2, m.bin(3))
	assert.Equal(t, 2, m.bin(100))
	assert.Equal(t, 0, m.bin(-100))
	assert.Equal(t, 2, m.bin(math.NaN()))
}

func TestBinMapperQuantiles(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}
	m := newBinMapper(values, 16)

	assert.LessOrEqual(t, m.numBins(), 16)
	assert.Greater(t, m.numBins(), 8)

	// Bin boundaries must agree with the raw-value split rule.
	for _, v := range values {
		b := m.bin(v)
		assert.LessOrEqual(t, v, m.threshold(b))
		if b > 0 {
			assert.Greater(t, v, m.threshold(b-1))
		}
	}
}

func TestBinMapperNoValues(t *testing.T) {
	m := newBinMapper([]float64{math.NaN(), math.NaN()}, 255)
	assert.Equal(t, 1, m.numBins())
	assert.Equal(t, 0, m.bin(5))
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, 1.5, midpoint(1, 2))

	a := 1.0
	b := math.Nextafter(a, 2)
	assert.Equal(t, a, midpoint(a, b))
}
