package hub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventArticleUpdated  = "article_updated"
	EventAttachmentAdded = "attachment_added"
)

// Event 推送给实时订阅端的变更事件
type Event struct {
	Type    string `json:"type"`
	Id      string `json:"id"`
	Message string `json:"message"`
}

// Hub 维护当前在线的实时订阅连接
// 连接建立时加入集合，断开或写失败时移除；推送尽力而为，不重试不排队
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve 把HTTP请求升级成websocket并注册为订阅端
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnf("websocket升级失败: %v", err)
		return
	}
	h.add(conn)
	zap.S().Debugf("订阅端已连接: %s", conn.RemoteAddr())
	go h.readLoop(conn)
}

// readLoop 客户端发来的消息只记录日志，不做任何处理
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.remove(conn)
		_ = conn.Close()
		zap.S().Debugf("订阅端已断开: %s", conn.RemoteAddr())
	}()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		zap.S().Debugf("忽略订阅端消息: %s", string(msg))
	}
}

// Broadcast 把事件序列化一次后发给所有在线订阅端
// 写失败的连接直接关闭并移除
func (h *Hub) Broadcast(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		zap.S().Errorf("事件序列化失败: %v", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			zap.S().Warnf("推送失败，移除订阅端 %s: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Count 当前在线订阅端数量
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}
