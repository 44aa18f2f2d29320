package vehicle

import "github.com/tsinghua-fib-lab/crossroad-sim/entity"

// View 车辆的只读快照，供渲染与外部接口使用
type View struct {
	ID              string `json:"id" yaml:"id"`
	X               int    `json:"x" yaml:"x"`
	Y               int    `json:"y" yaml:"y"`
	Direction       string `json:"direction" yaml:"direction"`
	EntryDirection  string `json:"entry_direction" yaml:"entry_direction"`
	Turn            string `json:"turn" yaml:"turn"`
	State           string `json:"state" yaml:"state"`
	Priority        bool   `json:"priority" yaml:"priority"`
	CrossedStopLine bool   `json:"crossed_stop_line" yaml:"crossed_stop_line"`
	Waited          int    `json:"waited" yaml:"waited"`
}

// View 生成车辆快照
func (v *Vehicle) View() View {
	return View{
		ID:              v.id.String(),
		X:               v.position.X,
		Y:               v.position.Y,
		Direction:       v.direction.String(),
		EntryDirection:  v.entryDirection.String(),
		Turn:            v.turnType.String(),
		State:           v.state.String(),
		Priority:        v.isPriority,
		CrossedStopLine: v.crossedStopLine,
		Waited:          v.waited,
	}
}

// Heading 快照中的当前朝向
func (w View) Heading() entity.Direction {
	d, err := entity.ParseDirection(w.Direction)
	if err != nil {
		log.Panicf("bad view direction: %v", err)
	}
	return d
}
