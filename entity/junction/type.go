package junction

import (
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/junction/trafficlight"
)

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给交通参与者与外部接口提供的信控读取接口
type ITrafficLightGetter interface {
	Phase() trafficlight.Phase                         // 当前相位
	Timer() int                                        // 当前相位已持续步数
	Signal(d entity.Direction) entity.SignalState      // 方位d的信号灯颜色
	Signals() [entity.NumDirections]entity.SignalState // 全部方位信号灯颜色
	Overridden() (entity.Direction, bool)              // 本步被紧急覆盖的方位
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter
	Update()                     // 正常推进一步
	Override(d entity.Direction) // 本步强制方位d绿灯、其余红灯
	Reset()                      // 恢复初始相位
}
