package vehicle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
)

var log = logrus.WithField("module", "vehicle")

// 掉头时判断已越过中央分隔线的横向距离阈值
const dividerClearance = 20

// Vehicle 车辆实体
// 功能：持有自身的运动状态机，每个模拟步根据所面对的信号灯与停止线前进一步
// 说明：普通车辆与紧急车辆共用同一结构，仅通过isPriority区分
type Vehicle struct {
	id uuid.UUID

	direction      entity.Direction // 当前朝向（转向后改变）
	entryDirection entity.Direction // 驶入方位（不变）
	turnType       entity.TurnType  // 转向意图（不变）
	position       entity.Point     // 当前坐标
	speed          int              // 每步前进距离
	isPriority     bool             // 是否为紧急车辆

	crossedStopLine bool               // 是否已越过停止线（只会从false变为true）
	state           entity.MotionState // 运动状态（只前进不回退）

	waited int // 被红灯或跟车距离阻挡的步数
}

// New 在方位d的入口处创建车辆
// 功能：校验枚举与边界后，将车辆放置在该方位车道的入口坐标
// 参数：d-驶入方位，turn-转向意图，isPriority-是否为紧急车辆，speed-每步前进距离，bounds-模拟区域
// 返回：新车辆；参数不合法时返回entity.ErrInvalidArgument
func New(d entity.Direction, turn entity.TurnType, isPriority bool, speed int, bounds entity.Bounds) (*Vehicle, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: direction %v", entity.ErrInvalidArgument, d)
	}
	if !turn.Valid() {
		return nil, fmt.Errorf("%w: turn type %v", entity.ErrInvalidArgument, turn)
	}
	if speed <= 0 {
		return nil, fmt.Errorf("%w: speed %d must be positive", entity.ErrInvalidArgument, speed)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Vehicle{
		id:             uuid.New(),
		direction:      d,
		entryDirection: d,
		turnType:       turn,
		position:       bounds.EntryPoint(d),
		speed:          speed,
		isPriority:     isPriority,
		state:          entity.APPROACHING,
	}, nil
}

func (v *Vehicle) ID() uuid.UUID { return v.id }
func (v *Vehicle) Direction() entity.Direction { return v.direction }
func (v *Vehicle) EntryDirection() entity.Direction { return v.entryDirection }
func (v *Vehicle) TurnType() entity.TurnType { return v.turnType }
func (v *Vehicle) Position() entity.Point { return v.position }
func (v *Vehicle) Speed() int { return v.speed }
func (v *Vehicle) IsPriority() bool { return v.isPriority }
func (v *Vehicle) CrossedStopLine() bool { return v.crossedStopLine }
func (v *Vehicle) State() entity.MotionState { return v.state }
func (v *Vehicle) Waited() int { return v.waited }
func (v *Vehicle) IsOut(b entity.Bounds, margin int) bool { return !b.Contains(v.position, margin) }

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{%s %v->%v %v at %v}", v.id.String()[:8], v.entryDirection, v.direction, v.state, v.position)
}

// DistanceFrom 与另一辆车的曼哈顿距离
func (v *Vehicle) DistanceFrom(o *Vehicle) int {
	return v.position.ManhattanDistance(o.position)
}

// Hold 记录本步被阻挡（不调用Move）
func (v *Vehicle) Hold() {
	v.waited++
}

// Move 前进一个模拟步
// 功能：执行停止线判定、红灯拦截与运动状态机分派
// 参数：signal-当前面对的信号灯颜色，stopLine-停止线坐标，center-路口中心
// 返回：本步是否被允许移动（false表示被红灯拦截）
// 算法说明：
// 1. 停止线判定：若按当前速度继续前进会到达或越过停止线，则锁存crossedStopLine（红灯时同样判定）
// 2. 红灯拦截：未越过停止线且为红灯时本步完全不动
// 3. 按运动状态分派：
//   - APPROACHING：直行，到达路口中心后根据转向意图进入EXITING/TURNING/UTURN_FIRST_TURN
//   - TURNING：左/右转并对齐到目标车道，进入EXITING
//   - UTURN_FIRST_TURN：第一次左转（仅改变朝向），进入UTURN_STRAIGHT
//   - UTURN_STRAIGHT：直行，按驶入方位判断越过中央分隔线后进入UTURN_SECOND_TURN
//   - UTURN_SECOND_TURN：第二次左转并对齐车道，进入EXITING
//   - EXITING：直行直至驶出区域
func (v *Vehicle) Move(signal entity.SignalState, stopLine int, center entity.Point) bool {
	if !v.crossedStopLine && v.reachesStopLine(stopLine) {
		v.crossedStopLine = true
	}
	if !v.crossedStopLine && signal == entity.RED {
		v.waited++
		return false
	}

	switch v.state {
	case entity.APPROACHING:
		v.advance()
		if v.reachedCenter(center) {
			switch v.turnType {
			case entity.STRAIGHT:
				v.transit(entity.EXITING)
			case entity.LEFT, entity.RIGHT:
				v.transit(entity.TURNING)
			case entity.UTURN:
				v.transit(entity.UTURN_FIRST_TURN)
			default:
				log.Panicf("bad turn type %v", v.turnType)
			}
		}
	case entity.TURNING:
		switch v.turnType {
		case entity.LEFT:
			v.direction = entity.TurnLeft(v.direction)
		case entity.RIGHT:
			v.direction = entity.TurnRight(v.direction)
		default:
			log.Panicf("vehicle %v turning with turn type %v", v, v.turnType)
		}
		v.position = entity.LaneAlignment(v.direction, v.position, center)
		v.transit(entity.EXITING)
	case entity.UTURN_FIRST_TURN:
		v.direction = entity.TurnLeft(v.direction)
		v.transit(entity.UTURN_STRAIGHT)
	case entity.UTURN_STRAIGHT:
		v.advance()
		if v.crossedDivider(center) {
			v.transit(entity.UTURN_SECOND_TURN)
		}
	case entity.UTURN_SECOND_TURN:
		v.direction = entity.TurnLeft(v.direction)
		v.position = entity.LaneAlignment(v.direction, v.position, center)
		v.transit(entity.EXITING)
	case entity.EXITING:
		v.advance()
	default:
		log.Panicf("bad motion state %v", v.state)
	}
	return true
}

// MoveIf 试探性前进一步，accept返回false时撤销本步的全部变化
// 功能：用于跟车距离约束，移动后的状态不满足约束则整体回滚并记为阻挡
// 返回：本步是否实际移动
func (v *Vehicle) MoveIf(signal entity.SignalState, stopLine int, center entity.Point, accept func(*Vehicle) bool) bool {
	saved := *v
	if !v.Move(signal, stopLine, center) {
		return false
	}
	if accept != nil && !accept(v) {
		*v = saved
		v.waited++
		return false
	}
	return true
}

func (v *Vehicle) advance() {
	v.position = entity.Step(v.direction, v.position, v.speed)
}

func (v *Vehicle) transit(next entity.MotionState) {
	if next <= v.state {
		log.Panicf("vehicle %v: motion state cannot go back from %v to %v", v, v.state, next)
	}
	log.Debugf("vehicle %v: %v -> %v", v.id, v.state, next)
	v.state = next
}

// reachesStopLine 按当前速度继续前进是否会到达或越过停止线
func (v *Vehicle) reachesStopLine(stopLine int) bool {
	switch v.direction {
	case entity.NORTH:
		return v.position.Y+v.speed >= stopLine
	case entity.SOUTH:
		return v.position.Y-v.speed <= stopLine
	case entity.WEST:
		return v.position.X+v.speed >= stopLine
	case entity.EAST:
		return v.position.X-v.speed <= stopLine
	}
	log.Panicf("bad direction %v", v.direction)
	return false
}

// reachedCenter 沿当前朝向是否已到达路口中心
func (v *Vehicle) reachedCenter(center entity.Point) bool {
	switch v.direction {
	case entity.NORTH:
		return v.position.Y >= center.Y
	case entity.SOUTH:
		return v.position.Y <= center.Y
	case entity.WEST:
		return v.position.X >= center.X
	case entity.EAST:
		return v.position.X <= center.X
	}
	log.Panicf("bad direction %v", v.direction)
	return false
}

// crossedDivider 掉头直行段是否已越过中央分隔线
// 说明：按驶入方位（而非当前朝向）所在的轴判断
func (v *Vehicle) crossedDivider(center entity.Point) bool {
	if v.entryDirection.IsNorthSouth() {
		return abs(v.position.X-center.X) > dividerClearance
	}
	return abs(v.position.Y-center.Y) > dividerClearance
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
