package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

// Clock 仿真时钟
// 功能：记录驱动循环已推进的步数与对应的仿真时间
type Clock struct {
	DT       float64 // 每步时间间隔（秒）
	END_STEP int32   // 结束步，0表示不限

	T    float64 // 当前时间（秒）
	Step int32   // 当前步数
}

// New 根据配置创建时钟
// 参数：stepConfig-控制步配置
// 返回：步数为0的时钟
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:       stepConfig.Interval,
		END_STEP: stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 重置时钟
func (c *Clock) Init() {
	c.Step = 0
	c.T = 0
}

// Advance 推进一步
func (c *Clock) Advance() {
	c.Step++
	c.T = float64(c.Step) * c.DT
}

// Done 是否已到达结束步
func (c *Clock) Done() bool {
	return c.END_STEP > 0 && c.Step >= c.END_STEP
}

// String 获取时钟的字符串表示
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
