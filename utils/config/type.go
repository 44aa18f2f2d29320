package config

// ControlStep 指定模拟器步数与步长的配置项
type ControlStep struct {
	Total    int32   `yaml:"total"`    // 总步数，0表示不限
	Interval float64 `yaml:"interval"` // 每步的实际时间间隔（秒）
}

// Bounds 路口绘制区域大小
type Bounds struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Control 模拟器控制配置
// 功能：定义驱动循环的核心控制参数
type Control struct {
	Step      ControlStep `yaml:"step"`
	Bounds    Bounds      `yaml:"bounds"`
	AutoStart bool        `yaml:"auto_start,omitempty"` // 启动后立即开始推进
}

// Signal 固定配时信号灯配置
type Signal struct {
	GreenTicks  int `yaml:"green_ticks"`  // 绿灯相位持续步数
	YellowTicks int `yaml:"yellow_ticks"` // 黄灯相位持续步数
}

// Vehicle 车辆运动配置
type Vehicle struct {
	Speed         int `yaml:"speed"`          // 普通车辆每步移动距离
	PrioritySpeed int `yaml:"priority_speed"` // 紧急车辆每步移动距离
	MinGap        int `yaml:"min_gap"`        // 同车道前后车最小曼哈顿距离
	ExitMargin    int `yaml:"exit_margin"`    // 超出区域该距离后视为驶出
}

// TurnWeights 随机生成车辆的转向权重
type TurnWeights struct {
	Straight float64 `yaml:"straight"`
	Left     float64 `yaml:"left"`
	Right    float64 `yaml:"right"`
	UTurn    float64 `yaml:"uturn"`
}

// Demand 随机到达的车流配置
// 功能：每步每个方位以概率Rate生成一辆车
type Demand struct {
	Enable       bool        `yaml:"enable"`
	Rate         float64     `yaml:"rate"`          // 每步每方位生成概率
	TurnWeights  TurnWeights `yaml:"turn_weights"`  // 转向权重
	PriorityProb float64     `yaml:"priority_prob"` // 生成紧急车辆的概率
	Seed         uint64      `yaml:"seed"`          // 随机种子
}

// Server 对外服务配置
type Server struct {
	Listen            string  `yaml:"listen"`             // RPC与websocket监听地址
	BroadcastInterval float64 `yaml:"broadcast_interval"` // 快照广播间隔（秒）
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Control Control `yaml:"control"` // 模拟过程控制
	Signal  Signal  `yaml:"signal"`  // 信号灯
	Vehicle Vehicle `yaml:"vehicle"` // 车辆
	Demand  Demand  `yaml:"demand"`  // 随机车流
	Server  Server  `yaml:"server"`  // 对外服务
}
