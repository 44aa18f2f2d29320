package lane

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/container"
)

// Lane 单个方位的进口车道队列
// 功能：按到达顺序保存该方位的车辆，逐车推进并保持最小跟车距离
// 说明：车辆从生成到驶出区域始终属于其驶入方位的车道
type Lane struct {
	direction  entity.Direction
	minGap     int // 最小跟车距离（曼哈顿距离）
	exitMargin int // 超出区域该距离后视为驶出

	vehicles container.List[*vehicle.Vehicle]
}

// New 创建方位d的车道队列
// 参数：d-方位，minGap-最小跟车距离，exitMargin-驶出判定的区域外扩距离
func New(d entity.Direction, minGap, exitMargin int) *Lane {
	if !d.Valid() {
		log.Panicf("bad direction %v", d)
	}
	return &Lane{
		direction:  d,
		minGap:     minGap,
		exitMargin: exitMargin,
		vehicles: container.List[*vehicle.Vehicle]{
			ID: fmt.Sprintf("lane %v vehicles", d),
		},
	}
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{%v, %d vehicles}", l.direction, l.vehicles.Len())
}

// Direction 车道方位
func (l *Lane) Direction() entity.Direction {
	return l.direction
}

// Len 当前排队车辆数
func (l *Lane) Len() int {
	return l.vehicles.Len()
}

// Vehicles 按到达顺序返回车辆
func (l *Lane) Vehicles() []*vehicle.Vehicle {
	return l.vehicles.Values()
}

// Push 车辆加入队尾
// 返回：车辆驶入方位与车道不一致时返回错误
func (l *Lane) Push(v *vehicle.Vehicle) error {
	if v.EntryDirection() != l.direction {
		return fmt.Errorf("%w: vehicle from %v pushed into lane %v", entity.ErrInvalidArgument, v.EntryDirection(), l.direction)
	}
	l.vehicles.PushBack(container.NewListNode(v))
	return nil
}

// Clear 清空车道
func (l *Lane) Clear() {
	l.vehicles.Clear()
}

// CountConflicting 队列中左转或掉头车辆数
func (l *Lane) CountConflicting() int {
	return lo.CountBy(l.vehicles.Values(), func(v *vehicle.Vehicle) bool {
		return v.TurnType().IsConflicting()
	})
}

// HasPriority 队列中是否有紧急车辆
func (l *Lane) HasPriority() bool {
	return lo.ContainsBy(l.vehicles.Values(), func(v *vehicle.Vehicle) bool {
		return v.IsPriority()
	})
}

// Advance 按到达顺序推进车道上的所有车辆一步
// 功能：逐车调用Move，维护最小跟车距离，移除驶出区域的车辆
// 参数：signal-本车道信号灯颜色，holdConflicting-本步是否强制左转/掉头车辆视为红灯，bounds-模拟区域
// 返回：本步驶出区域并已从队列移除的车辆
// 算法说明：
// 1. 与前车距离已小于最小跟车距离：本步不移动
// 2. 否则试探移动，若移动后与前车距离小于最小跟车距离则撤销本步
// 3. 冲突让行的车辆以红灯移动：未越过停止线时停车，已越过则继续通过路口
// 4. 移动后超出区域的车辆从队列移除，不再作为后车的前车
func (l *Lane) Advance(signal entity.SignalState, holdConflicting bool, bounds entity.Bounds) (exited []*vehicle.Vehicle) {
	stopLine := bounds.StopLine(l.direction)
	center := bounds.Center()

	var front *vehicle.Vehicle
	for node := l.vehicles.First(); node != nil; {
		next := node.Next()
		v := node.Value

		s := signal
		if holdConflicting && v.TurnType().IsConflicting() {
			s = entity.RED
		}
		if front != nil && v.DistanceFrom(front) < l.minGap {
			v.Hold()
		} else {
			ahead := front
			v.MoveIf(s, stopLine, center, func(moved *vehicle.Vehicle) bool {
				return ahead == nil || moved.DistanceFrom(ahead) >= l.minGap
			})
		}

		if v.IsOut(bounds, l.exitMargin) {
			l.vehicles.Remove(node)
			exited = append(exited, v)
		} else {
			front = v
		}
		node = next
	}
	return exited
}
