package task

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/lane"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

// Engine 单路口仿真引擎
// 功能：持有四个方位的车道、路口信号灯与通过计数，按步推进整个路口
// 说明：非线程安全，由Runner或调用方串行调用
type Engine struct {
	vehicleConfig config.Vehicle

	laneManager *lane.LaneManager
	junction    *junction.Junction

	passed      [entity.NumDirections]int // 各方位累计驶出车辆数
	totalPassed int                       // 累计驶出车辆总数
	ticks       int                       // 已推进步数
}

// NewEngine 创建仿真引擎
// 参数：c-配置，使用其中的signal与vehicle部分
// 返回：相位为NS_GREEN、计时0、无车辆的引擎
func NewEngine(c config.Config) *Engine {
	return &Engine{
		vehicleConfig: c.Vehicle,
		laneManager:   lane.NewManager(c.Vehicle.MinGap, c.Vehicle.ExitMargin),
		junction:      junction.New(c.Signal.GreenTicks, c.Signal.YellowTicks),
	}
}

// SpawnVehicle 在方位d的入口生成一辆车并加入该方位车道队尾
// 参数：d-驶入方位，turn-转向意图，isPriority-是否为紧急车辆，bounds-模拟区域
// 返回：新车辆；枚举越界或区域非法时返回entity.ErrInvalidArgument
func (e *Engine) SpawnVehicle(d entity.Direction, turn entity.TurnType, isPriority bool, bounds entity.Bounds) (*vehicle.Vehicle, error) {
	speed := e.vehicleConfig.Speed
	if isPriority {
		speed = e.vehicleConfig.PrioritySpeed
	}
	v, err := vehicle.New(d, turn, isPriority, speed, bounds)
	if err != nil {
		return nil, fmt.Errorf("spawn vehicle: %w", err)
	}
	if err := e.laneManager.Get(d).Push(v); err != nil {
		return nil, fmt.Errorf("spawn vehicle: %w", err)
	}
	log.Debugf("spawn %v", v)
	return v, nil
}

// Tick 推进一步
// 功能：路口先做紧急放行或相位推进并仲裁冲突通行权，再按方位枚举顺序推进各车道，最后累计驶出车辆
// 参数：width、height-模拟区域大小
// 返回：区域非法时返回entity.ErrInvalidArgument，此时状态不变
func (e *Engine) Tick(width, height int) error {
	bounds := entity.Bounds{Width: width, Height: height}
	if err := bounds.Validate(); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	decision := e.junction.Control(e.laneManager.Views())
	signals := e.junction.TrafficLight().Signals()
	for _, l := range e.laneManager.Lanes() {
		d := l.Direction()
		exited := l.Advance(signals[d], decision.Hold(d), bounds)
		for _, v := range exited {
			log.Debugf("exit %v", v)
		}
		e.passed[d] += len(exited)
		e.totalPassed += len(exited)
	}
	e.ticks++
	return nil
}

// Reset 清空所有车辆与计数，信号灯回到初始相位
func (e *Engine) Reset() {
	e.laneManager.Clear()
	e.junction.Reset()
	e.passed = [entity.NumDirections]int{}
	e.totalPassed = 0
	e.ticks = 0
	log.Info("engine reset")
}

// Signal 方位d当前的信号灯颜色
func (e *Engine) Signal(d entity.Direction) entity.SignalState {
	return e.junction.TrafficLight().Signal(d)
}

// Signals 全部方位当前的信号灯颜色
func (e *Engine) Signals() [entity.NumDirections]entity.SignalState {
	return e.junction.TrafficLight().Signals()
}

// Phase 当前相位
func (e *Engine) Phase() trafficlight.Phase {
	return e.junction.TrafficLight().Phase()
}

// PhaseTimer 当前相位已持续的步数
func (e *Engine) PhaseTimer() int {
	return e.junction.TrafficLight().Timer()
}

// Vehicles 全部车辆的快照，按方位枚举顺序、车道内到达顺序
func (e *Engine) Vehicles() []vehicle.View {
	return lo.Map(e.laneManager.Vehicles(), func(v *vehicle.Vehicle, _ int) vehicle.View {
		return v.View()
	})
}

// LaneCount 方位d的排队车辆数
func (e *Engine) LaneCount(d entity.Direction) int {
	return e.laneManager.Get(d).Len()
}

// LanePassed 方位d累计驶出车辆数
func (e *Engine) LanePassed(d entity.Direction) int {
	if !d.Valid() {
		log.Panicf("bad direction %v", d)
	}
	return e.passed[d]
}

// TotalPassed 全部方位累计驶出车辆数
func (e *Engine) TotalPassed() int {
	return e.totalPassed
}

// ConflictPriorityLane 上一步获得冲突通行权的方位
func (e *Engine) ConflictPriorityLane() (entity.Direction, bool) {
	d := e.junction.Last()
	return d.Conflict, d.HasConflict
}

// EmergencyLane 上一步被紧急放行的方位
func (e *Engine) EmergencyLane() (entity.Direction, bool) {
	d := e.junction.Last()
	return d.Emergency, d.HasEmergency
}

// Ticks 自创建或上次重置以来已推进的步数
func (e *Engine) Ticks() int {
	return e.ticks
}
