package viewer

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
)

var (
	roadStyle     = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)
	vehicleStyle  = roadStyle.Foreground(tcell.ColorWhite).Bold(true)
	priorityStyle = roadStyle.Foreground(tcell.ColorRed).Bold(true)
	textStyle     = tcell.StyleDefault.Foreground(tcell.ColorSilver)

	signalStyles = map[string]tcell.Style{
		entity.RED.String():    tcell.StyleDefault.Foreground(tcell.ColorRed),
		entity.YELLOW.String(): tcell.StyleDefault.Foreground(tcell.ColorYellow),
		entity.GREEN.String():  tcell.StyleDefault.Foreground(tcell.ColorGreen),
	}

	// 按当前朝向绘制的车辆字符（NORTH向屏幕下方行驶）
	headingGlyphs = [entity.NumDirections]rune{
		entity.NORTH: 'v',
		entity.SOUTH: '^',
		entity.EAST:  '<',
		entity.WEST:  '>',
	}
)

// viewport 仿真坐标到终端单元格的映射
type viewport struct {
	cols, rows    int
	width, height int
}

func (p viewport) cell(pt entity.Point) (int, int, bool) {
	if pt.X < 0 || pt.Y < 0 || pt.X >= p.width || pt.Y >= p.height {
		return 0, 0, false
	}
	return pt.X * p.cols / p.width, pt.Y * p.rows / p.height, true
}

// sim 单元格中心对应的仿真坐标
func (p viewport) sim(col, row int) entity.Point {
	return entity.Point{
		X: (2*col + 1) * p.width / (2 * p.cols),
		Y: (2*row + 1) * p.height / (2 * p.rows),
	}
}

// Draw 重绘一帧
func (v *Viewer) Draw() {
	s := v.runner.Snapshot()
	v.screen.Clear()
	cols, rows := v.screen.Size()
	p := viewport{cols: cols, rows: rows - statusLines, width: s.Width, height: s.Height}
	if p.rows > 0 && p.cols > 0 && p.width > 0 && p.height > 0 {
		v.drawRoads(p)
		v.drawSignals(p, s)
		v.drawVehicles(p, s.Vehicles)
	}
	v.drawStatus(rows-statusLines, s)
	v.screen.Show()
}

func (v *Viewer) drawRoads(p viewport) {
	center := entity.Bounds{Width: p.width, Height: p.height}.Center()
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			pt := p.sim(col, row)
			if abs(pt.X-center.X) <= roadHalfWidth || abs(pt.Y-center.Y) <= roadHalfWidth {
				v.screen.SetContent(col, row, ' ', nil, roadStyle)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// drawSignals 在每个方位车道的停止线处绘制信号灯
func (v *Viewer) drawSignals(p viewport, s task.Snapshot) {
	b := entity.Bounds{Width: p.width, Height: p.height}
	for _, d := range entity.Directions {
		at := b.EntryPoint(d)
		if d.IsNorthSouth() {
			at.Y = b.StopLine(d)
		} else {
			at.X = b.StopLine(d)
		}
		if col, row, ok := p.cell(at); ok {
			v.screen.SetContent(col, row, '■', nil, signalStyles[s.Lane(d).Signal])
		}
	}
}

func (v *Viewer) drawVehicles(p viewport, vehicles []vehicle.View) {
	for _, w := range vehicles {
		col, row, ok := p.cell(entity.Point{X: w.X, Y: w.Y})
		if !ok {
			continue
		}
		style := vehicleStyle
		if w.Priority {
			style = priorityStyle
		}
		v.screen.SetContent(col, row, headingGlyphs[w.Heading()], nil, style)
	}
}

func (v *Viewer) drawStatus(row int, s task.Snapshot) {
	state := "paused"
	if s.Playing {
		state = "playing"
	}
	v.drawText(0, row, textStyle, fmt.Sprintf(
		"tick %d  %s  phase %s(%d)  %s", s.Tick, s.Time, s.Phase, s.PhaseTimer, state,
	))
	lanes := lo.Map(s.Lanes, func(l task.LaneSnapshot, _ int) string {
		return fmt.Sprintf("%s %s q=%d passed=%d", l.Direction[:1], l.Signal, l.Queue, l.Passed)
	})
	v.drawText(0, row+1, textStyle, strings.Join(lanes, " | ")+fmt.Sprintf(" | total=%d", s.TotalPassed))
	v.drawText(0, row+2, textStyle, fmt.Sprintf(
		"next: %v priority=%v  [n/s/e/w] spawn [t] turn [p] priority [space] play/pause [.] step [r] reset [q] quit",
		v.turn, v.priority,
	))
	v.drawText(0, row+3, textStyle, v.message)
}

func (v *Viewer) drawText(x, y int, style tcell.Style, text string) {
	if y < 0 {
		return
	}
	for i, r := range []rune(text) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
