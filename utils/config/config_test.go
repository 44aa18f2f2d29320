package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 100, c.Signal.GreenTicks)
	assert.Equal(t, 10, c.Signal.YellowTicks)
	assert.Equal(t, 45, c.Vehicle.MinGap)
	assert.Equal(t, 60, c.Vehicle.ExitMargin)
	assert.Equal(t, 2, c.Vehicle.Speed)
}

func TestLoadKeepsDefaults(t *testing.T) {
	c, err := config.Load([]byte(`
control:
  step:
    total: 500
  bounds:
    width: 400
    height: 300
signal:
  green_ticks: 50
demand:
  enable: true
  seed: 7
`))
	require.NoError(t, err)
	assert.Equal(t, int32(500), c.Control.Step.Total)
	assert.Equal(t, 0.03, c.Control.Step.Interval)
	assert.Equal(t, config.Bounds{Width: 400, Height: 300}, c.Control.Bounds)
	assert.Equal(t, 50, c.Signal.GreenTicks)
	assert.Equal(t, 10, c.Signal.YellowTicks)
	assert.True(t, c.Demand.Enable)
	assert.Equal(t, uint64(7), c.Demand.Seed)
	assert.Equal(t, 0.5, c.Demand.TurnWeights.Straight)

	rc := config.NewRuntimeConfig(c)
	assert.Equal(t, c.Control, rc.C)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := config.Load([]byte("signal:\n  red_ticks: 3\n"))
	assert.ErrorIs(t, err, config.ErrBadConfig)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, data := range []string{
		"signal:\n  green_ticks: 0\n",
		"control:\n  bounds:\n    width: -1\n",
		"vehicle:\n  speed: 0\n",
		"demand:\n  rate: 1.5\n",
		"demand:\n  turn_weights:\n    straight: 0\n    left: 0\n    right: 0\n    uturn: 0\n",
	} {
		_, err := config.Load([]byte(data))
		assert.ErrorIs(t, err, config.ErrBadConfig, data)
	}
}
