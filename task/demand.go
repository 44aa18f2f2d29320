package task

import (
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/randengine"
)

// demand 随机车流生成器
// 功能：每步对每个方位独立抽样，按转向权重与紧急车辆概率生成车辆
type demand struct {
	rate         float64
	priorityProb float64
	weights      []float64 // 与entity.TurnTypes一一对应
	minGap       int
	generator    *randengine.Engine
}

func newDemand(c config.Demand, minGap int) *demand {
	w := c.TurnWeights
	return &demand{
		rate:         c.Rate,
		priorityProb: c.PriorityProb,
		weights:      []float64{w.Straight, w.Left, w.Right, w.UTurn},
		minGap:       minGap,
		generator:    randengine.New(c.Seed),
	}
}

// spawn 为本步生成车辆
// 说明：方位入口处的队尾车辆尚未让出最小跟车距离时跳过该方位，但仍消耗随机数以保持序列可复现
func (g *demand) spawn(e *Engine, bounds entity.Bounds) []*vehicle.Vehicle {
	var spawned []*vehicle.Vehicle
	for _, d := range entity.Directions {
		if !g.generator.PTrue(g.rate) {
			continue
		}
		turn := entity.TurnTypes[g.generator.DiscreteDistribution(g.weights)]
		priority := g.generator.PTrue(g.priorityProb)
		if queued := e.laneManager.Get(d).Vehicles(); len(queued) > 0 &&
			queued[len(queued)-1].Position().ManhattanDistance(bounds.EntryPoint(d)) < g.minGap {
			continue
		}
		v, err := e.SpawnVehicle(d, turn, priority, bounds)
		if err != nil {
			log.Panicf("demand spawn: %v", err)
		}
		spawned = append(spawned, v)
	}
	return spawned
}
