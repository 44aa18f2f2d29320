package task

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
)

// LaneSnapshot 单个方位的状态
type LaneSnapshot struct {
	Direction string `json:"direction"`
	Signal    string `json:"signal"`
	Queue     int    `json:"queue"`  // 排队车辆数
	Passed    int    `json:"passed"` // 累计驶出车辆数
}

// Snapshot 引擎状态的只读副本，供渲染与外部接口使用
type Snapshot struct {
	Tick       int    `json:"tick"`
	Time       string `json:"time,omitempty"`
	Playing    bool   `json:"playing"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Phase      string `json:"phase"`
	PhaseTimer int    `json:"phase_timer"`

	Lanes       []LaneSnapshot `json:"lanes"` // 按方位枚举顺序
	TotalPassed int            `json:"total_passed"`

	ConflictPriorityLane string `json:"conflict_priority_lane,omitempty"`
	EmergencyLane        string `json:"emergency_lane,omitempty"`

	Vehicles []vehicle.View `json:"vehicles"`
}

// Lane 方位d的状态
func (s Snapshot) Lane(d entity.Direction) LaneSnapshot {
	l, ok := lo.Find(s.Lanes, func(l LaneSnapshot) bool { return l.Direction == d.String() })
	if !ok {
		log.Panicf("no lane %v in snapshot", d)
	}
	return l
}

// Snapshot 生成当前状态的快照
// 参数：bounds-渲染所用的模拟区域
func (e *Engine) Snapshot(bounds entity.Bounds) Snapshot {
	s := Snapshot{
		Tick:        e.ticks,
		Width:       bounds.Width,
		Height:      bounds.Height,
		Phase:       e.Phase().String(),
		PhaseTimer:  e.PhaseTimer(),
		TotalPassed: e.totalPassed,
		Vehicles:    e.Vehicles(),
	}
	signals := e.Signals()
	s.Lanes = lo.Map(entity.Directions[:], func(d entity.Direction, _ int) LaneSnapshot {
		return LaneSnapshot{
			Direction: d.String(),
			Signal:    signals[d].String(),
			Queue:     e.LaneCount(d),
			Passed:    e.passed[d],
		}
	})
	if d, ok := e.ConflictPriorityLane(); ok {
		s.ConflictPriorityLane = d.String()
	}
	if d, ok := e.EmergencyLane(); ok {
		s.EmergencyLane = d.String()
	}
	return s
}
