package task

import (
	"context"
	"flag"
	"sync"
	"time"

	"github.com/tsinghua-fib-lab/crossroad-sim/clock"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// Runner 仿真驱动器
// 功能：持有引擎、时钟与随机车流，按固定间隔推进引擎，并串行化外部的生成、重置、播放/暂停指令
// 说明：所有方法都在同一把锁下执行，指令总是在两步之间生效
type Runner struct {
	mtx sync.Mutex

	engine        *Engine
	clock         *clock.Clock
	runtimeConfig *config.RuntimeConfig
	bounds        entity.Bounds
	demand        *demand // 未启用随机车流时为nil

	playing bool
}

// NewRunner 创建驱动器
// 参数：c-已校验的配置
// 返回：根据control.auto_start决定是否处于播放状态的驱动器
func NewRunner(c config.Config) *Runner {
	r := &Runner{
		engine:        NewEngine(c),
		clock:         clock.New(c.Control.Step),
		runtimeConfig: config.NewRuntimeConfig(c),
		bounds:        entity.Bounds{Width: c.Control.Bounds.Width, Height: c.Control.Bounds.Height},
		playing:       c.Control.AutoStart,
	}
	if c.Demand.Enable {
		r.demand = newDemand(c.Demand, c.Vehicle.MinGap)
	}
	return r
}

// Run 运行驱动循环
// 功能：每隔control.step.interval秒在播放状态下推进一步，直到达到总步数或ctx被取消
// 返回：达到总步数时返回nil，ctx取消时返回ctx.Err()
func (r *Runner) Run(ctx context.Context) error {
	interval := time.Duration(r.runtimeConfig.C.Step.Interval * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Infof("runner started: interval=%v total=%d bounds=%dx%d", interval, r.runtimeConfig.C.Step.Total, r.bounds.Width, r.bounds.Height)
	for {
		select {
		case <-ctx.Done():
			log.Infof("runner stopped at step %d", r.Ticks())
			return ctx.Err()
		case <-ticker.C:
			r.mtx.Lock()
			if r.playing {
				r.step()
			}
			done := r.clock.Done()
			r.mtx.Unlock()
			if done {
				log.Infof("engine complete")
				return nil
			}
		}
	}
}

// Step 立即推进一步（不论是否处于播放状态）
func (r *Runner) Step() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.step()
}

func (r *Runner) step() {
	if r.demand != nil {
		r.demand.spawn(r.engine, r.bounds)
	}
	if err := r.engine.Tick(r.bounds.Width, r.bounds.Height); err != nil {
		log.Panicf("tick: %v", err)
	}
	r.clock.Advance()
	if *heartBeatInterval > 0 && r.clock.Step%int32(*heartBeatInterval) == 0 {
		hour, minute, second := r.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) phase=%v vehicles=%d passed=%d",
			r.clock.Step,
			hour, minute, second,
			r.engine.Phase(), r.engine.laneManager.Len(), r.engine.TotalPassed(),
		)
	}
}

// Play 开始自动推进
func (r *Runner) Play() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if !r.playing {
		log.Info("play")
	}
	r.playing = true
}

// Pause 暂停自动推进
func (r *Runner) Pause() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.playing {
		log.Info("pause")
	}
	r.playing = false
}

func (r *Runner) Playing() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.playing
}

// Spawn 在方位d生成一辆车
// 返回：新车辆的快照；枚举越界时返回entity.ErrInvalidArgument
func (r *Runner) Spawn(d entity.Direction, turn entity.TurnType, isPriority bool) (vehicle.View, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	v, err := r.engine.SpawnVehicle(d, turn, isPriority, r.bounds)
	if err != nil {
		return vehicle.View{}, err
	}
	return v.View(), nil
}

// Reset 清空引擎并将时钟归零，播放状态保持不变
func (r *Runner) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.engine.Reset()
	r.clock.Init()
}

// Snapshot 当前状态快照
func (r *Runner) Snapshot() Snapshot {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	s := r.engine.Snapshot(r.bounds)
	s.Time = r.clock.String()
	s.Playing = r.playing
	return s
}

func (r *Runner) Ticks() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.engine.Ticks()
}

// Bounds 模拟区域大小
func (r *Runner) Bounds() entity.Bounds {
	return r.bounds
}

// RuntimeConfig 运行时配置
func (r *Runner) RuntimeConfig() *config.RuntimeConfig {
	return r.runtimeConfig
}
