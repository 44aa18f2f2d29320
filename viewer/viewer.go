// 终端查看器：用tcell绘制路口、信号灯与车辆，并通过按键控制仿真
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
)

var log = logrus.WithField("module", "viewer")

const (
	statusLines   = 4                     // 底部状态栏行数
	frameInterval = 30 * time.Millisecond // 重绘间隔
	roadHalfWidth = 80                    // 道路半宽（仿真坐标）
)

var spawnKeys = map[rune]entity.Direction{
	'n': entity.NORTH,
	's': entity.SOUTH,
	'e': entity.EAST,
	'w': entity.WEST,
}

// IRunner 查看器所需的仿真驱动接口
type IRunner interface {
	Spawn(d entity.Direction, turn entity.TurnType, isPriority bool) (vehicle.View, error)
	Step()
	Play()
	Pause()
	Playing() bool
	Reset()
	Snapshot() task.Snapshot
}

// Viewer 终端查看器
type Viewer struct {
	screen tcell.Screen
	runner IRunner

	turn     entity.TurnType // 下一辆生成车辆的转向
	priority bool            // 下一辆生成车辆是否为紧急车辆
	message  string          // 最近一次操作的提示
}

// New 创建查看器
// 参数：screen-已Init的屏幕，runner-仿真驱动
func New(screen tcell.Screen, runner IRunner) *Viewer {
	return &Viewer{
		screen: screen,
		runner: runner,
		turn:   entity.STRAIGHT,
	}
}

// Run 事件循环：按帧重绘并处理按键，直到按下退出键或ctx被取消
func (v *Viewer) Run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !v.HandleEvent(ev) {
				return
			}
			v.Draw()
		case <-ticker.C:
			v.Draw()
		}
	}
}

// HandleEvent 处理一个屏幕事件
// 返回：false表示退出
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// HandleKey 处理按键
// 功能：n/s/e/w在对应方位生成车辆，t切换转向，p切换紧急车辆，空格播放/暂停，.单步，r重置，q/Esc退出
// 返回：false表示退出
func (v *Viewer) HandleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch ch {
	case 'q':
		return false
	case 'n', 's', 'e', 'w':
		d := spawnKeys[ch]
		if _, err := v.runner.Spawn(d, v.turn, v.priority); err != nil {
			v.message = err.Error()
			log.Warnf("spawn: %v", err)
		} else {
			v.message = fmt.Sprintf("spawned %v %v", d, v.turn)
		}
	case 't':
		v.turn = entity.TurnTypes[(int(v.turn)+1)%len(entity.TurnTypes)]
		v.message = fmt.Sprintf("turn: %v", v.turn)
	case 'p':
		v.priority = !v.priority
		v.message = fmt.Sprintf("priority: %v", v.priority)
	case ' ':
		if v.runner.Playing() {
			v.runner.Pause()
			v.message = "paused"
		} else {
			v.runner.Play()
			v.message = "playing"
		}
	case '.':
		v.runner.Step()
		v.message = "step"
	case 'r':
		v.runner.Reset()
		v.message = "reset"
	}
	return true
}

// Turn 下一辆生成车辆的转向
func (v *Viewer) Turn() entity.TurnType {
	return v.turn
}

// Priority 下一辆生成车辆是否为紧急车辆
func (v *Viewer) Priority() bool {
	return v.priority
}
