package entity

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "entity")

// 路口几何常量（像素）
const (
	laneOffsetNorth = -55 // 北向来车车道相对中心的x偏移
	laneOffsetSouth = 5   // 南向来车车道相对中心的x偏移
	laneOffsetWest  = 40  // 西向来车车道相对中心的y偏移
	laneOffsetEast  = -20 // 东向来车车道相对中心的y偏移

	stopLineDivisor = 12 // 停止线距中心 = 边长 / stopLineDivisor
)

// Point 整数二维坐标
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ManhattanDistance 两点曼哈顿距离
func (p Point) ManhattanDistance(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Bounds 模拟区域大小
type Bounds struct {
	Width, Height int
}

// Validate 检查边界是否可用于模拟
func (b Bounds) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: bounds %dx%d must be positive", ErrInvalidArgument, b.Width, b.Height)
	}
	return nil
}

// Center 路口中心
func (b Bounds) Center() Point {
	return Point{X: b.Width / 2, Y: b.Height / 2}
}

// StopLine 给定方位来车的停止线坐标
// 说明：南北向为y坐标，东西向为x坐标
func (b Bounds) StopLine(d Direction) int {
	c := b.Center()
	switch d {
	case NORTH:
		return c.Y - b.Height/stopLineDivisor
	case SOUTH:
		return c.Y + b.Height/stopLineDivisor
	case WEST:
		return c.X - b.Width/stopLineDivisor
	case EAST:
		return c.X + b.Width/stopLineDivisor
	}
	log.Panicf("bad direction %v", d)
	return 0
}

// EntryPoint 给定方位车辆的生成位置（区域边缘，位于该方位的车道上）
func (b Bounds) EntryPoint(d Direction) Point {
	c := b.Center()
	p := Point{}
	switch d {
	case NORTH:
		p.Y = 0
	case SOUTH:
		p.Y = b.Height
	case WEST:
		p.X = 0
	case EAST:
		p.X = b.Width
	default:
		log.Panicf("bad direction %v", d)
	}
	return LaneAlignment(d, p, c)
}

// Contains 判断坐标是否仍在扩展了margin的区域内
func (b Bounds) Contains(p Point, margin int) bool {
	return p.X >= -margin && p.X <= b.Width+margin && p.Y >= -margin && p.Y <= b.Height+margin
}

// LaneAlignment 将坐标的横向分量对齐到朝向d对应的车道
// 功能：转向完成后车辆需要占据目标车道，只修改与行驶方向垂直的坐标分量
func LaneAlignment(d Direction, p Point, center Point) Point {
	switch d {
	case NORTH:
		p.X = center.X + laneOffsetNorth
	case SOUTH:
		p.X = center.X + laneOffsetSouth
	case WEST:
		p.Y = center.Y + laneOffsetWest
	case EAST:
		p.Y = center.Y + laneOffsetEast
	default:
		log.Panicf("bad direction %v", d)
	}
	return p
}

// Step 沿朝向d前进distance后的坐标
func Step(d Direction, p Point, distance int) Point {
	switch d {
	case NORTH:
		p.Y += distance
	case SOUTH:
		p.Y -= distance
	case WEST:
		p.X += distance
	case EAST:
		p.X -= distance
	default:
		log.Panicf("bad direction %v", d)
	}
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
