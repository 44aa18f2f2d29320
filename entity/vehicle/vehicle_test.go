package vehicle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
)

var bounds = entity.Bounds{Width: 600, Height: 600}

func newVehicle(t *testing.T, d entity.Direction, turn entity.TurnType) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.New(d, turn, false, 2, bounds)
	require.NoError(t, err)
	return v
}

// step 按车辆驶入方位的停止线前进一步
func step(v *vehicle.Vehicle, signal entity.SignalState) bool {
	return v.Move(signal, bounds.StopLine(v.EntryDirection()), bounds.Center())
}

func TestNewPlacesVehicleAtEntryPoint(t *testing.T) {
	cases := map[entity.Direction]entity.Point{
		entity.NORTH: {X: 245, Y: 0},
		entity.SOUTH: {X: 305, Y: 600},
		entity.WEST:  {X: 0, Y: 340},
		entity.EAST:  {X: 600, Y: 280},
	}
	for d, want := range cases {
		v := newVehicle(t, d, entity.STRAIGHT)
		assert.Equal(t, want, v.Position(), d.String())
		assert.Equal(t, d, v.Direction())
		assert.Equal(t, d, v.EntryDirection())
		assert.Equal(t, entity.APPROACHING, v.State())
		assert.False(t, v.CrossedStopLine())
	}
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	_, err := vehicle.New(entity.Direction(7), entity.LEFT, false, 2, bounds)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
	_, err = vehicle.New(entity.NORTH, entity.TurnType(-1), false, 2, bounds)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
	_, err = vehicle.New(entity.NORTH, entity.LEFT, false, 0, bounds)
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
	_, err = vehicle.New(entity.NORTH, entity.LEFT, false, 2, entity.Bounds{})
	assert.ErrorIs(t, err, entity.ErrInvalidArgument)
}

func TestRedLightHoldsVehicleBeforeStopLine(t *testing.T) {
	for _, d := range entity.Directions {
		v := newVehicle(t, d, entity.STRAIGHT)
		start := v.Position()
		for rangeIdx := 0; rangeIdx < 200; rangeIdx++ {
			assert.False(t, step(v, entity.RED))
		}
		assert.Equal(t, start, v.Position(), d.String())
		assert.False(t, v.CrossedStopLine())
		assert.Equal(t, 200, v.Waited())
	}
}

func TestStopLineLatchRunsOnRed(t *testing.T) {
	v := newVehicle(t, entity.NORTH, entity.STRAIGHT)
	// 停止线恰好在下一步可达的位置：先锁存再放行
	assert.True(t, v.Move(entity.RED, 2, bounds.Center()))
	assert.True(t, v.CrossedStopLine())
	assert.Equal(t, entity.Point{X: 245, Y: 2}, v.Position())

	// 锁存后红灯不再拦截
	assert.True(t, v.Move(entity.RED, 2, bounds.Center()))
	assert.Equal(t, 4, v.Position().Y)
}

func TestYellowDoesNotStop(t *testing.T) {
	v := newVehicle(t, entity.WEST, entity.STRAIGHT)
	assert.True(t, step(v, entity.YELLOW))
	assert.Equal(t, entity.Point{X: 2, Y: 340}, v.Position())
}

func TestStraightVehicleExitsAfterCenter(t *testing.T) {
	v := newVehicle(t, entity.NORTH, entity.STRAIGHT)
	for rangeIdx := 0; rangeIdx < 149; rangeIdx++ {
		step(v, entity.GREEN)
	}
	assert.Equal(t, entity.APPROACHING, v.State())
	step(v, entity.GREEN)
	assert.Equal(t, 300, v.Position().Y)
	assert.Equal(t, entity.EXITING, v.State())
	assert.Equal(t, entity.NORTH, v.Direction())

	ticks := 150
	for !v.IsOut(bounds, 60) {
		step(v, entity.RED)
		ticks++
	}
	assert.Equal(t, 331, ticks)
}

func TestLeftAndRightTurnAlignToTargetLane(t *testing.T) {
	cases := []struct {
		from  entity.Direction
		turn  entity.TurnType
		to    entity.Direction
		check func(p entity.Point) bool
	}{
		{entity.NORTH, entity.LEFT, entity.WEST, func(p entity.Point) bool { return p.Y == 340 }},
		{entity.NORTH, entity.RIGHT, entity.EAST, func(p entity.Point) bool { return p.Y == 280 }},
		{entity.SOUTH, entity.LEFT, entity.EAST, func(p entity.Point) bool { return p.Y == 280 }},
		{entity.EAST, entity.LEFT, entity.NORTH, func(p entity.Point) bool { return p.X == 245 }},
		{entity.WEST, entity.RIGHT, entity.NORTH, func(p entity.Point) bool { return p.X == 245 }},
	}
	for _, c := range cases {
		v := newVehicle(t, c.from, c.turn)
		for v.State() == entity.APPROACHING {
			step(v, entity.GREEN)
		}
		require.Equal(t, entity.TURNING, v.State())
		before := v.Position()
		step(v, entity.GREEN)
		assert.Equal(t, entity.EXITING, v.State())
		assert.Equal(t, c.to, v.Direction(), "%v %v", c.from, c.turn)
		assert.True(t, c.check(v.Position()), "%v %v at %v", c.from, c.turn, v.Position())
		// 转向步只修改横向坐标
		if c.to.IsNorthSouth() {
			assert.Equal(t, before.Y, v.Position().Y)
		} else {
			assert.Equal(t, before.X, v.Position().X)
		}
	}
}

func TestUTurnStateSequence(t *testing.T) {
	want := []entity.MotionState{
		entity.APPROACHING,
		entity.UTURN_FIRST_TURN,
		entity.UTURN_STRAIGHT,
		entity.UTURN_SECOND_TURN,
		entity.EXITING,
	}
	for _, d := range entity.Directions {
		v := newVehicle(t, d, entity.UTURN)
		seen := []entity.MotionState{v.State()}
		for rangeIdx := 0; rangeIdx < 1000; rangeIdx++ {
			if v.IsOut(bounds, 60) {
				break
			}
			prev := v.State()
			step(v, entity.GREEN)
			if v.State() != prev {
				seen = append(seen, v.State())
			}
		}
		assert.Equal(t, want, seen, d.String())
		assert.True(t, v.IsOut(bounds, 60), d.String())
		assert.Equal(t, entity.TurnLeft(entity.TurnLeft(d)), v.Direction(), d.String())
	}
}

func TestUTurnFirstTurnOnlyChangesHeading(t *testing.T) {
	v := newVehicle(t, entity.EAST, entity.UTURN)
	for v.State() == entity.APPROACHING {
		step(v, entity.GREEN)
	}
	before := v.Position()
	step(v, entity.GREEN)
	assert.Equal(t, entity.UTURN_STRAIGHT, v.State())
	assert.Equal(t, entity.NORTH, v.Direction())
	assert.Equal(t, before, v.Position())
}

func TestUTurnDividerUsesEntryAxis(t *testing.T) {
	// 东向驶入：第一次左转后朝北行驶，需y方向离开中心超过20才完成第二次左转
	v := newVehicle(t, entity.EAST, entity.UTURN)
	for v.State() != entity.UTURN_STRAIGHT {
		step(v, entity.GREEN)
	}
	for v.State() == entity.UTURN_STRAIGHT {
		step(v, entity.GREEN)
	}
	assert.Equal(t, entity.UTURN_SECOND_TURN, v.State())
	assert.Greater(t, v.Position().Y-300, 20)
	step(v, entity.GREEN)
	assert.Equal(t, entity.WEST, v.Direction())
	assert.Equal(t, 340, v.Position().Y)
}

func TestMoveIfRollsBack(t *testing.T) {
	v := newVehicle(t, entity.SOUTH, entity.LEFT)
	start := v.Position()
	moved := v.MoveIf(entity.GREEN, bounds.StopLine(entity.SOUTH), bounds.Center(), func(*vehicle.Vehicle) bool { return false })
	assert.False(t, moved)
	assert.Equal(t, start, v.Position())
	assert.Equal(t, entity.APPROACHING, v.State())
	assert.Equal(t, 1, v.Waited())

	moved = v.MoveIf(entity.GREEN, bounds.StopLine(entity.SOUTH), bounds.Center(), nil)
	assert.True(t, moved)
	assert.Equal(t, start.Y-2, v.Position().Y)
}

func TestDistanceFromIsManhattan(t *testing.T) {
	a := newVehicle(t, entity.NORTH, entity.STRAIGHT)
	b := newVehicle(t, entity.WEST, entity.STRAIGHT)
	// (245,0) 与 (0,340)
	assert.Equal(t, 245+340, a.DistanceFrom(b))
	assert.Equal(t, a.DistanceFrom(b), b.DistanceFrom(a))
}

func TestView(t *testing.T) {
	v, err := vehicle.New(entity.EAST, entity.UTURN, true, 3, bounds)
	require.NoError(t, err)
	w := v.View()
	assert.Equal(t, v.ID().String(), w.ID)
	assert.Equal(t, "EAST", w.Direction)
	assert.Equal(t, "UTURN", w.Turn)
	assert.Equal(t, "APPROACHING", w.State)
	assert.True(t, w.Priority)
	assert.Equal(t, entity.EAST, w.Heading())
}
