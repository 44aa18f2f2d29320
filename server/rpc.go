package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// IntersectionServiceName 控制服务名
	IntersectionServiceName = "crossroad.v1.IntersectionService"

	SpawnVehicleProcedure = "/" + IntersectionServiceName + "/SpawnVehicle"
	TickProcedure         = "/" + IntersectionServiceName + "/Tick"
	ResetProcedure        = "/" + IntersectionServiceName + "/Reset"
	PlayProcedure         = "/" + IntersectionServiceName + "/Play"
	PauseProcedure        = "/" + IntersectionServiceName + "/Pause"
	GetSnapshotProcedure  = "/" + IntersectionServiceName + "/GetSnapshot"
)

func (s *Server) registerRPC(mux *http.ServeMux) {
	mux.Handle(SpawnVehicleProcedure, connect.NewUnaryHandler(SpawnVehicleProcedure, s.SpawnVehicle))
	mux.Handle(TickProcedure, connect.NewUnaryHandler(TickProcedure, s.Tick))
	mux.Handle(ResetProcedure, connect.NewUnaryHandler(ResetProcedure, s.Reset))
	mux.Handle(PlayProcedure, connect.NewUnaryHandler(PlayProcedure, s.Play))
	mux.Handle(PauseProcedure, connect.NewUnaryHandler(PauseProcedure, s.Pause))
	mux.Handle(GetSnapshotProcedure, connect.NewUnaryHandler(GetSnapshotProcedure, s.GetSnapshot))
}

// SpawnVehicle RPC接口：在指定方位生成车辆
// 参数：in-包含direction、turn（字符串）与priority（布尔）的Struct
// 返回：新车辆的快照；方位或转向不合法时返回CodeInvalidArgument
func (s *Server) SpawnVehicle(
	ctx context.Context, in *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	fields := in.Msg.GetFields()
	d, err := entity.ParseDirection(fields["direction"].GetStringValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	turn, err := entity.ParseTurnType(fields["turn"].GetStringValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	v, err := s.runner.Spawn(d, turn, fields["priority"].GetBoolValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	out, err := toStruct(v)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

// Tick RPC接口：立即推进一步并返回推进后的快照
func (s *Server) Tick(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.runner.Step()
	return s.GetSnapshot(ctx, in)
}

// Reset RPC接口：清空仿真
func (s *Server) Reset(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[emptypb.Empty], error) {
	s.runner.Reset()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *Server) Play(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[emptypb.Empty], error) {
	s.runner.Play()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *Server) Pause(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[emptypb.Empty], error) {
	s.runner.Pause()
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetSnapshot RPC接口：获取当前状态快照
func (s *Server) GetSnapshot(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	out, err := toStruct(s.runner.Snapshot())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

// toStruct 经由JSON将任意可序列化的值转为structpb.Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return structpb.NewStruct(m)
}
