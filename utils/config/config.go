package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"
)

var (
	ErrBadConfig = errors.New("bad config")
)

// Default 默认配置
// 功能：30毫秒一步、绿灯100步、黄灯10步、车速2、最小跟车距离45
func Default() Config {
	return Config{
		Control: Control{
			Step:   ControlStep{Total: 0, Interval: 0.03},
			Bounds: Bounds{Width: 800, Height: 800},
		},
		Signal: Signal{GreenTicks: 100, YellowTicks: 10},
		Vehicle: Vehicle{
			Speed:         2,
			PrioritySpeed: 2,
			MinGap:        45,
			ExitMargin:    60,
		},
		Demand: Demand{
			Rate: 0.01,
			TurnWeights: TurnWeights{
				Straight: 0.5,
				Left:     0.2,
				Right:    0.2,
				UTurn:    0.1,
			},
			PriorityProb: 0.02,
			Seed:         0,
		},
		Server: Server{
			Listen:            ":51102",
			BroadcastInterval: 0.1,
		},
	}
}

// Load 解析YAML配置
// 功能：在默认配置之上严格解析YAML，未知字段报错，未出现的字段保留默认值
// 参数：data-YAML文本
// 返回：解析并校验后的配置
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate 检查配置取值范围
func (c Config) Validate() error {
	switch {
	case c.Control.Step.Interval <= 0:
		return fmt.Errorf("%w: control.step.interval must be positive", ErrBadConfig)
	case c.Control.Step.Total < 0:
		return fmt.Errorf("%w: control.step.total must not be negative", ErrBadConfig)
	case c.Control.Bounds.Width <= 0 || c.Control.Bounds.Height <= 0:
		return fmt.Errorf("%w: control.bounds must be positive", ErrBadConfig)
	case c.Signal.GreenTicks <= 0 || c.Signal.YellowTicks <= 0:
		return fmt.Errorf("%w: signal ticks must be positive", ErrBadConfig)
	case c.Vehicle.Speed <= 0 || c.Vehicle.PrioritySpeed <= 0:
		return fmt.Errorf("%w: vehicle speeds must be positive", ErrBadConfig)
	case c.Vehicle.MinGap < 0 || c.Vehicle.ExitMargin < 0:
		return fmt.Errorf("%w: vehicle.min_gap and vehicle.exit_margin must not be negative", ErrBadConfig)
	case c.Demand.Rate < 0 || c.Demand.Rate > 1 || c.Demand.PriorityProb < 0 || c.Demand.PriorityProb > 1:
		return fmt.Errorf("%w: demand probabilities must be in [0, 1]", ErrBadConfig)
	}
	w := c.Demand.TurnWeights
	if w.Straight < 0 || w.Left < 0 || w.Right < 0 || w.UTurn < 0 || w.Straight+w.Left+w.Right+w.UTurn <= 0 {
		return fmt.Errorf("%w: demand.turn_weights must be non-negative with a positive sum", ErrBadConfig)
	}
	return nil
}

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，驱动循环与对外服务从这里读取
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
func NewRuntimeConfig(config Config) *RuntimeConfig {
	return &RuntimeConfig{
		All: config,
		C:   config.Control,
	}
}
