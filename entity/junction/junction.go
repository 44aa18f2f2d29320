package junction

import (
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction/trafficlight"
)

var log = logrus.WithField("module", "junction")

// Decision 路口在一步中的放行决策
type Decision struct {
	Emergency    entity.Direction // 紧急放行方位
	HasEmergency bool
	Conflict     entity.Direction // 冲突通行权方位
	HasConflict  bool
}

// Hold 方位d的冲突转向车辆本步是否需要让行
func (d Decision) Hold(dir entity.Direction) bool {
	return d.HasConflict && d.Conflict != dir
}

// Junction 单个信号控制路口
// 功能：持有信号灯，并在每一步根据车道需求做紧急放行与冲突仲裁
type Junction struct {
	trafficLight ITrafficLight // 信号灯模块
	last         Decision      // 上一步的决策
}

// New 创建路口
// 参数：greenTicks-绿灯步数，yellowTicks-黄灯步数
// 返回：使用固定配时信号灯的路口
func New(greenTicks, yellowTicks int) *Junction {
	return &Junction{
		trafficLight: trafficlight.NewLocalTrafficLight(greenTicks, yellowTicks),
	}
}

// Control 推进信号灯一步并给出本步的放行决策
// 功能：有紧急车辆时强制其车道绿灯（相位计时冻结），否则按相位正常推进；
// 仅在没有紧急车辆时计算冲突通行权
// 参数：lanes-按方位枚举顺序排列的车道
// 返回：本步的放行决策
func (j *Junction) Control(lanes []entity.ILane) Decision {
	var d Decision
	d.Emergency, d.HasEmergency = EmergencyLane(lanes)
	if d.HasEmergency {
		if !j.last.HasEmergency || j.last.Emergency != d.Emergency {
			log.Infof("emergency vehicle on %v, overriding %v", d.Emergency, j.trafficLight.Phase())
		}
		j.trafficLight.Override(d.Emergency)
	} else {
		if j.last.HasEmergency {
			log.Infof("emergency on %v cleared, resuming %v", j.last.Emergency, j.trafficLight.Phase())
		}
		j.trafficLight.Update()
		d.Conflict, d.HasConflict = ConflictPriorityLane(lanes)
	}
	j.last = d
	return d
}

// Last 上一步的放行决策
func (j *Junction) Last() Decision {
	return j.last
}

// TrafficLight 信号灯只读接口
func (j *Junction) TrafficLight() ITrafficLightGetter {
	return j.trafficLight
}

// Reset 恢复信号灯初始相位并清空决策
func (j *Junction) Reset() {
	j.trafficLight.Reset()
	j.last = Decision{}
}
