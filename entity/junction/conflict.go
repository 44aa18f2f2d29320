package junction

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

// ConflictPriorityLane 选取本步获得冲突通行权的车道
// 功能：统计各车道排队中的左转与掉头车辆数（冲突压力），取严格最大者
// 参数：lanes-按方位枚举顺序排列的车道
// 返回：获得通行权的方位；最大值为0或多个车道并列最大时返回false
func ConflictPriorityLane(lanes []entity.ILane) (entity.Direction, bool) {
	best, bestCount, tie := entity.Direction(0), 0, false
	for _, l := range lanes {
		switch c := l.CountConflicting(); {
		case c > bestCount:
			best, bestCount, tie = l.Direction(), c, false
		case c == bestCount && c > 0:
			tie = true
		}
	}
	if bestCount == 0 || tie {
		return best, false
	}
	return best, true
}

// EmergencyLane 选取本步需要紧急放行的车道
// 说明：多个车道同时有紧急车辆时按方位枚举顺序取第一个
func EmergencyLane(lanes []entity.ILane) (entity.Direction, bool) {
	l, ok := lo.Find(lanes, func(l entity.ILane) bool { return l.HasPriority() })
	if !ok {
		return entity.Direction(0), false
	}
	return l.Direction(), true
}
