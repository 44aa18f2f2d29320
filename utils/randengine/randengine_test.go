package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a, b := randengine.New(42), randengine.New(42)
	for rangeIdx := 0; rangeIdx < 100; rangeIdx++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(1)
	counts := make([]int, 3)
	for rangeIdx := 0; rangeIdx < 10000; rangeIdx++ {
		counts[e.DiscreteDistribution([]float64{1, 0, 3})]++
	}
	assert.Zero(t, counts[1])
	assert.InDelta(t, 2500, counts[0], 300)
	assert.InDelta(t, 7500, counts[2], 300)
	assert.Panics(t, func() { e.DiscreteDistribution([]float64{0, 0}) })
}

func TestPTrue(t *testing.T) {
	e := randengine.New(3)
	for rangeIdx := 0; rangeIdx < 100; rangeIdx++ {
		assert.False(t, e.PTrue(0))
		assert.True(t, e.PTrue(1))
	}
}
