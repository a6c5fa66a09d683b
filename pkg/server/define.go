package server

import (
	"encoding/json"

	"articledesk/pkg/hub"
	"articledesk/pkg/nsc"
	"articledesk/pkg/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler REST API处理器
// 实时推送hub作为协作对象注入，不允许当全局变量用
type Handler struct {
	cfg   *Config
	store store.Store
	hub   *hub.Hub
	nats  *nsc.NatsPubClient // 可选，未配置时为nil
}

func NewHandler(cfg *Config, st store.Store, h *hub.Hub, nc *nsc.NatsPubClient) *Handler {
	return &Handler{
		cfg:   cfg,
		store: st,
		hub:   h,
		nats:  nc,
	}
}

// LiveUpdates 实时推送通道
// 服务端单向推送变更事件，客户端消息只记日志
func (h *Handler) LiveUpdates(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request)
}

// notify 广播事件给所有在线订阅端，配置了NATS时同步镜像一份
func (h *Handler) notify(evt hub.Event) {
	h.hub.Broadcast(evt)
	if h.nats != nil {
		data, err := json.Marshal(evt)
		if err != nil {
			return
		}
		if err := h.nats.Publish(data); err != nil {
			zap.S().Warnf("NATS事件发布失败: %v", err)
		}
	}
}

// ArticleRequest 创建/更新文章请求体
type ArticleRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	WorkspaceId *string `json:"workspaceId"`
}

// WorkspaceRequest 创建工作区请求体
type WorkspaceRequest struct {
	Name string `json:"name"`
}

// CommentRequest 创建评论请求体
type CommentRequest struct {
	Content string  `json:"content"`
	Author  *string `json:"author"`
}

// CommentUpdateRequest 更新评论请求体，content为空时保留原值
type CommentUpdateRequest struct {
	Content string `json:"content"`
}
