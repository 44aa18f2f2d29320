package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument 外部输入超出枚举范围或边界非法
	ErrInvalidArgument = errors.New("invalid argument")
)

// Direction 车辆驶来的方位（同时也是车辆当前的行驶朝向）
// NORTH: y增大方向行驶，SOUTH: y减小，WEST: x增大，EAST: x减小
type Direction int

const (
	NORTH Direction = iota
	SOUTH
	EAST
	WEST

	NumDirections = 4
)

// Directions 固定的方位枚举顺序，所有按方位的遍历（包括紧急车辆检测）都使用该顺序
var Directions = [NumDirections]Direction{NORTH, SOUTH, EAST, WEST}

func (d Direction) String() string {
	switch d {
	case NORTH:
		return "NORTH"
	case SOUTH:
		return "SOUTH"
	case EAST:
		return "EAST"
	case WEST:
		return "WEST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Valid 判断方位是否在枚举范围内
func (d Direction) Valid() bool {
	return d >= NORTH && d <= WEST
}

// IsNorthSouth 判断方位是否属于南北轴
func (d Direction) IsNorthSouth() bool {
	switch d {
	case NORTH, SOUTH:
		return true
	case EAST, WEST:
		return false
	}
	log.Panicf("bad direction %v", d)
	return false
}

// ParseDirection 从字符串解析方位（大小写不敏感）
// 返回：方位，若不在枚举范围内则返回ErrInvalidArgument
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, s)
}

// TurnLeft 左转后的方位
// 功能：N→W→S→E→N 的置换，对四个方位完全定义
func TurnLeft(d Direction) Direction {
	switch d {
	case NORTH:
		return WEST
	case WEST:
		return SOUTH
	case SOUTH:
		return EAST
	case EAST:
		return NORTH
	}
	log.Panicf("bad direction %v", d)
	return d
}

// TurnRight 右转后的方位，TurnLeft的逆置换
func TurnRight(d Direction) Direction {
	switch d {
	case NORTH:
		return EAST
	case EAST:
		return SOUTH
	case SOUTH:
		return WEST
	case WEST:
		return NORTH
	}
	log.Panicf("bad direction %v", d)
	return d
}

// TurnType 车辆在路口的转向意图，车辆生命周期内不变
type TurnType int

const (
	STRAIGHT TurnType = iota
	LEFT
	RIGHT
	UTURN
)

// TurnTypes 转向类型的枚举顺序
var TurnTypes = [...]TurnType{STRAIGHT, LEFT, RIGHT, UTURN}

func (t TurnType) String() string {
	switch t {
	case STRAIGHT:
		return "STRAIGHT"
	case LEFT:
		return "LEFT"
	case RIGHT:
		return "RIGHT"
	case UTURN:
		return "UTURN"
	}
	return fmt.Sprintf("TurnType(%d)", int(t))
}

// Valid 判断转向类型是否在枚举范围内
func (t TurnType) Valid() bool {
	return t >= STRAIGHT && t <= UTURN
}

// IsConflicting 是否为穿越对向车流的转向（左转、掉头）
func (t TurnType) IsConflicting() bool {
	switch t {
	case LEFT, UTURN:
		return true
	case STRAIGHT, RIGHT:
		return false
	}
	log.Panicf("bad turn type %v", t)
	return false
}

// ParseTurnType 从字符串解析转向类型（大小写不敏感，接受"U_TURN"）
func ParseTurnType(s string) (TurnType, error) {
	normalized := strings.ReplaceAll(s, "_", "")
	for _, t := range TurnTypes {
		if strings.EqualFold(normalized, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown turn type %q", ErrInvalidArgument, s)
}

// SignalState 信号灯颜色
type SignalState int

const (
	RED SignalState = iota
	YELLOW
	GREEN
)

func (s SignalState) String() string {
	switch s {
	case RED:
		return "RED"
	case YELLOW:
		return "YELLOW"
	case GREEN:
		return "GREEN"
	}
	return fmt.Sprintf("SignalState(%d)", int(s))
}

// MotionState 车辆运动状态机的状态，只能前进不能回退
type MotionState int

const (
	APPROACHING MotionState = iota
	TURNING
	UTURN_FIRST_TURN
	UTURN_STRAIGHT
	UTURN_SECOND_TURN
	EXITING
)

func (m MotionState) String() string {
	switch m {
	case APPROACHING:
		return "APPROACHING"
	case TURNING:
		return "TURNING"
	case UTURN_FIRST_TURN:
		return "UTURN_FIRST_TURN"
	case UTURN_STRAIGHT:
		return "UTURN_STRAIGHT"
	case UTURN_SECOND_TURN:
		return "UTURN_SECOND_TURN"
	case EXITING:
		return "EXITING"
	}
	return fmt.Sprintf("MotionState(%d)", int(m))
}
