package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// handleWs 升级为websocket连接，立即推送一次当前快照并加入广播列表
func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("err upgrading connection: %v", err)
		return
	}

	data, err := json.Marshal(s.runner.Snapshot())
	if err != nil {
		log.Errorf("err marshaling snapshot: %v", err)
		conn.Close()
		return
	}
	s.clientsMutex.Lock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warnf("websocket write error: %v", err)
		conn.Close()
		s.clientsMutex.Unlock()
		return
	}
	s.clients[conn] = true
	log.Infof("new websocket client connected, total clients: %d", len(s.clients))
	s.clientsMutex.Unlock()

	go s.handleClientMessages(conn)
}

// handleClientMessages 读取并丢弃客户端消息，连接断开后移出广播列表
func (s *Server) handleClientMessages(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		log.Infof("websocket client disconnected, remaining clients: %d", len(s.clients))
		s.clientsMutex.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("websocket error: %v", err)
			}
			return
		}
	}
}

// Run 按配置的间隔向所有客户端广播快照，直到ctx被取消
func (s *Server) Run(ctx context.Context) {
	if s.interval <= 0 {
		log.Warnf("broadcast disabled: interval %v", s.interval)
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return
		case <-ticker.C:
			s.Broadcast()
		}
	}
}

// Broadcast 向所有客户端推送一次当前快照，写失败的连接被移除
func (s *Server) Broadcast() {
	s.clientsMutex.Lock()
	n := len(s.clients)
	s.clientsMutex.Unlock()
	if n == 0 {
		return
	}

	data, err := json.Marshal(s.runner.Snapshot())
	if err != nil {
		log.Errorf("err marshaling snapshot: %v", err)
		return
	}

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warnf("websocket write error: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn := range s.clients {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		conn.Close()
		delete(s.clients, conn)
	}
}
