// 对外服务：connect RPC控制接口与websocket快照推送
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity"
	"github.com/tsinghua-fib-lab/crossroad-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/crossroad-sim/task"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/config"
)

var log = logrus.WithField("module", "server")

// IRunner 服务所需的仿真驱动接口
type IRunner interface {
	Spawn(d entity.Direction, turn entity.TurnType, isPriority bool) (vehicle.View, error)
	Step()
	Play()
	Pause()
	Reset()
	Snapshot() task.Snapshot
}

// Server 对外服务
type Server struct {
	runner   IRunner
	interval time.Duration // 快照推送间隔

	upgrader     websocket.Upgrader
	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
}

// New 创建对外服务
// 参数：runner-仿真驱动，c-服务配置
func New(runner IRunner, c config.Server) *Server {
	return &Server{
		runner:   runner,
		interval: time.Duration(c.BroadcastInterval * float64(time.Second)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handler 全部HTTP路由：RPC过程与/ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRPC(mux)
	mux.HandleFunc("/ws", s.handleWs)
	return mux
}

// ListenAndServe 监听addr并提供服务，同时启动快照推送，直到ctx被取消
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	go s.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("shutdown: %v", err)
		}
	}()
	log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
