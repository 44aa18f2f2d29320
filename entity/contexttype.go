package entity

// ILane 路口冲突检测所需的车道接口
// 说明：entity/lane的依赖倒置，junction只通过该接口读取车道需求
type ILane interface {
	Direction() Direction  // 车道方位
	CountConflicting() int // 左转、掉头车辆数
	HasPriority() bool     // 是否有紧急车辆
	Len() int              // 排队车辆数
}
