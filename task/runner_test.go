package task_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

func runnerConfig() config.Config {
	c := config.Default()
	c.Control.Step.Interval = 0.001
	c.Control.Bounds = config.Bounds{Width: 600, Height: 600}
	return c
}

func TestRunStopsAfterTotal(t *testing.T) {
	c := runnerConfig()
	c.Control.Step.Total = 5
	c.Control.AutoStart = true
	r := task.NewRunner(c)
	require.True(t, r.Playing())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, 5, r.Ticks())
	s := r.Snapshot()
	assert.Equal(t, 5, s.Tick)
	assert.Equal(t, "00:00:00", s.Time)
}

func TestRunDoesNotTickWhilePaused(t *testing.T) {
	r := task.NewRunner(runnerConfig())
	require.False(t, r.Playing())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Run(ctx), context.DeadlineExceeded)
	assert.Equal(t, 0, r.Ticks())
}

func TestPlayPauseWhileRunning(t *testing.T) {
	r := task.NewRunner(runnerConfig())
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Run(ctx)
	}()

	r.Play()
	assert.Eventually(t, func() bool { return r.Ticks() >= 3 }, 5*time.Second, time.Millisecond)
	r.Pause()
	paused := r.Ticks()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, r.Ticks())
	assert.False(t, r.Snapshot().Playing)

	cancel()
	wg.Wait()
}

func TestSpawnStepReset(t *testing.T) {
	r := task.NewRunner(runnerConfig())
	v, err := r.Spawn(entity.WEST, entity.LEFT, true)
	require.NoError(t, err)
	assert.Equal(t, "WEST", v.Direction)
	assert.Equal(t, "LEFT", v.Turn)
	assert.True(t, v.Priority)
	assert.Equal(t, r.Bounds().EntryPoint(entity.WEST).X, v.X)

	_, err = r.Spawn(entity.Direction(5), entity.LEFT, false)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)

	r.Step()
	s := r.Snapshot()
	assert.Equal(t, 1, s.Tick)
	assert.Equal(t, "WEST", s.EmergencyLane)
	assert.Equal(t, 1, s.Lane(entity.WEST).Queue)
	require.Len(t, s.Vehicles, 1)
	assert.Equal(t, v.ID, s.Vehicles[0].ID)
	assert.Equal(t, v.X+2, s.Vehicles[0].X)

	r.Reset()
	s = r.Snapshot()
	assert.Equal(t, 0, s.Tick)
	assert.Empty(t, s.Vehicles)
	assert.Equal(t, "NS_GREEN", s.Phase)
	assert.Equal(t, 0, s.PhaseTimer)
	assert.Empty(t, s.EmergencyLane)
}

type trace struct {
	X, Y     int
	Turn     string
	Priority bool
}

func runDemand(seed uint64, steps int) (task.Snapshot, []trace) {
	c := runnerConfig()
	c.Demand.Enable = true
	c.Demand.Rate = 0.05
	c.Demand.Seed = seed
	r := task.NewRunner(c)
	for i := 0; i < steps; i++ {
		r.Step()
	}
	s := r.Snapshot()
	return s, lo.Map(s.Vehicles, func(v vehicle.View, _ int) trace {
		return trace{X: v.X, Y: v.Y, Turn: v.Turn, Priority: v.Priority}
	})
}

func TestDemandIsDeterministic(t *testing.T) {
	a, at := runDemand(11, 800)
	b, bt := runDemand(11, 800)
	assert.Equal(t, a.TotalPassed, b.TotalPassed)
	assert.Equal(t, at, bt)
	assert.Equal(t, a.Lanes, b.Lanes)
	assert.Positive(t, a.TotalPassed+len(a.Vehicles))
}

func TestDemandDisabled(t *testing.T) {
	r := task.NewRunner(runnerConfig())
	for rangeIdx := 0; rangeIdx < 200; rangeIdx++ {
		r.Step()
	}
	assert.Empty(t, r.Snapshot().Vehicles)
}
