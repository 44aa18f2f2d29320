package trafficlight

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

var log = logrus.WithField("module", "trafficlight")

// Phase 信号相位，按 NS_GREEN → NS_YELLOW → EW_GREEN → EW_YELLOW 循环，没有终止状态
type Phase int

const (
	NS_GREEN Phase = iota
	NS_YELLOW
	EW_GREEN
	EW_YELLOW

	numPhases = 4
)

func (p Phase) String() string {
	switch p {
	case NS_GREEN:
		return "NS_GREEN"
	case NS_YELLOW:
		return "NS_YELLOW"
	case EW_GREEN:
		return "EW_GREEN"
	case EW_YELLOW:
		return "EW_YELLOW"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Next 循环中的下一个相位
func (p Phase) Next() Phase {
	switch p {
	case NS_GREEN, NS_YELLOW, EW_GREEN, EW_YELLOW:
		return (p + 1) % numPhases
	}
	log.Panicf("bad phase %v", p)
	return p
}

// ApplyPhase 计算相位对应的各方位信号灯颜色
// 功能：纯函数，默认全红，再将相位所在轴的两个方位设为绿灯或黄灯
// 说明：任一时刻至多一个轴为绿灯
func ApplyPhase(p Phase) (signals [entity.NumDirections]entity.SignalState) {
	for i := range signals {
		signals[i] = entity.RED
	}
	switch p {
	case NS_GREEN:
		signals[entity.NORTH] = entity.GREEN
		signals[entity.SOUTH] = entity.GREEN
	case NS_YELLOW:
		signals[entity.NORTH] = entity.YELLOW
		signals[entity.SOUTH] = entity.YELLOW
	case EW_GREEN:
		signals[entity.EAST] = entity.GREEN
		signals[entity.WEST] = entity.GREEN
	case EW_YELLOW:
		signals[entity.EAST] = entity.YELLOW
		signals[entity.WEST] = entity.YELLOW
	default:
		log.Panicf("bad phase %v", p)
	}
	return signals
}

// localTrafficLight 本地固定配时信号灯控制器
// 功能：按固定步数在四个相位间循环，支持紧急车辆的单步强制覆盖
type localTrafficLight struct {
	greenTicks  int // 绿灯相位持续步数
	yellowTicks int // 黄灯相位持续步数

	phase   Phase                                    // 当前相位
	timer   int                                      // 自上次切换以来的步数
	signals [entity.NumDirections]entity.SignalState // 各方位信号灯颜色

	overridden  bool             // 本步信号灯是否被覆盖
	overrideDir entity.Direction // 本步被强制绿灯的方位
}

// NewLocalTrafficLight 创建固定配时信号灯控制器
// 参数：greenTicks-绿灯步数，yellowTicks-黄灯步数
// 返回：初始为NS_GREEN、计时0的控制器
func NewLocalTrafficLight(greenTicks, yellowTicks int) *localTrafficLight {
	if greenTicks <= 0 || yellowTicks <= 0 {
		log.Panicf("phase durations must be positive, got green=%d yellow=%d", greenTicks, yellowTicks)
	}
	l := &localTrafficLight{
		greenTicks:  greenTicks,
		yellowTicks: yellowTicks,
	}
	l.Reset()
	return l
}

// Update 正常推进一步
// 功能：计时加一，超过当前相位的时长则切换到下一相位并清零计时
// 说明：每步都由相位重新计算信号灯，因此紧急覆盖结束后自动恢复相位对应的颜色
func (l *localTrafficLight) Update() {
	l.overridden = false
	l.timer++
	if l.timer > l.duration(l.phase) {
		next := l.phase.Next()
		log.Debugf("phase %v -> %v after %d ticks", l.phase, next, l.timer-1)
		l.phase = next
		l.timer = 0
	}
	l.signals = ApplyPhase(l.phase)
}

// Override 本步强制方位d为绿灯、其余为红灯
// 说明：不修改相位与计时，下次Update从原计时继续
func (l *localTrafficLight) Override(d entity.Direction) {
	if !d.Valid() {
		log.Panicf("bad direction %v", d)
	}
	if !l.overridden || l.overrideDir != d {
		log.Debugf("override: %v forced green during %v", d, l.phase)
	}
	for i := range l.signals {
		l.signals[i] = entity.RED
	}
	l.signals[d] = entity.GREEN
	l.overridden = true
	l.overrideDir = d
}

// Reset 恢复为初始状态
func (l *localTrafficLight) Reset() {
	l.phase = NS_GREEN
	l.timer = 0
	l.overridden = false
	l.signals = ApplyPhase(l.phase)
}

// Phase 当前相位
func (l *localTrafficLight) Phase() Phase {
	return l.phase
}

// Timer 当前相位已持续的步数
func (l *localTrafficLight) Timer() int {
	return l.timer
}

// Signal 方位d的信号灯颜色
func (l *localTrafficLight) Signal(d entity.Direction) entity.SignalState {
	if !d.Valid() {
		log.Panicf("bad direction %v", d)
	}
	return l.signals[d]
}

// Signals 全部方位的信号灯颜色
func (l *localTrafficLight) Signals() [entity.NumDirections]entity.SignalState {
	return l.signals
}

// Overridden 本步被强制绿灯的方位
func (l *localTrafficLight) Overridden() (entity.Direction, bool) {
	return l.overrideDir, l.overridden
}

func (l *localTrafficLight) duration(p Phase) int {
	switch p {
	case NS_GREEN, EW_GREEN:
		return l.greenTicks
	case NS_YELLOW, EW_YELLOW:
		return l.yellowTicks
	}
	log.Panicf("bad phase %v", p)
	return 0
}
