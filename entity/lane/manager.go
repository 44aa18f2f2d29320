package lane

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
)

// LaneManager 车道管理器
// 功能：为四个方位各持有一条车道，构造时即全部创建，不存在缺失方位
type LaneManager struct {
	lanes [entity.NumDirections]*Lane
}

// NewManager 创建车道管理器实例
// 参数：minGap-最小跟车距离，exitMargin-驶出判定的区域外扩距离
// 返回：四个方位车道均已初始化的管理器
func NewManager(minGap, exitMargin int) *LaneManager {
	m := &LaneManager{}
	for _, d := range entity.Directions {
		m.lanes[d] = New(d, minGap, exitMargin)
	}
	return m
}

// Get 获取方位d的车道
func (m *LaneManager) Get(d entity.Direction) *Lane {
	if !d.Valid() {
		log.Panicf("no lane for direction %v", d)
	}
	return m.lanes[d]
}

// Lanes 按方位枚举顺序返回所有车道
func (m *LaneManager) Lanes() []*Lane {
	return m.lanes[:]
}

// Views 按方位枚举顺序返回所有车道的冲突检测视图
func (m *LaneManager) Views() []entity.ILane {
	return lo.Map(m.Lanes(), func(l *Lane, _ int) entity.ILane { return l })
}

// Vehicles 按方位枚举顺序、车道内到达顺序返回全部车辆
func (m *LaneManager) Vehicles() []*vehicle.Vehicle {
	return lo.FlatMap(m.Lanes(), func(l *Lane, _ int) []*vehicle.Vehicle {
		return l.Vehicles()
	})
}

// Len 全部车道的车辆总数
func (m *LaneManager) Len() int {
	return lo.SumBy(m.Lanes(), func(l *Lane) int { return l.Len() })
}

// Clear 清空全部车道
func (m *LaneManager) Clear() {
	for _, l := range m.lanes {
		l.Clear()
	}
}
