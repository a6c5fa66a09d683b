package server

import (
	"net/http"
	"strings"

	"articledesk/pkg/models"
	"articledesk/pkg/store"
	"articledesk/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListWorkspaces 获取工作区列表
// @Summary      获取工作区列表
// @Description  按创建时间正序
// @Tags         workspaces
// @Produce      json
// @Success      200  {array}  models.Workspace
// @Router       /workspaces [get]
func (h *Handler) ListWorkspaces(c *gin.Context) {
	list, err := h.store.ListWorkspaces()
	if err != nil {
		zap.S().Errorf("查询工作区列表失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to read workspaces.")
		return
	}
	util.Ok(c, list)
}

// CreateWorkspace 创建工作区
// @Summary      创建工作区
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Workspace
// @Router       /workspaces [post]
func (h *Handler) CreateWorkspace(c *gin.Context) {
	var req WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Name is required.")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		util.Fail(c, http.StatusBadRequest, "Name is required.")
		return
	}

	workspace := &models.Workspace{
		Id:   uuid.NewString(),
		Name: req.Name,
	}
	if err := h.store.CreateWorkspace(workspace); err != nil {
		zap.S().Errorf("保存工作区失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to save workspace.")
		return
	}
	util.Created(c, workspace)
}

// DeleteWorkspace 删除工作区
// @Summary      删除工作区
// @Description  级联删除工作区下的文章以及文章的评论
// @Tags         workspaces
// @Produce      json
// @Param        id  path  string  true  "工作区ID"
// @Success      200  {object}  gin.H
// @Router       /workspaces/{id} [delete]
func (h *Handler) DeleteWorkspace(c *gin.Context) {
	if err := h.store.DeleteWorkspace(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Workspace not found.")
			return
		}
		zap.S().Errorf("删除工作区失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to delete workspace.")
		return
	}
	util.Ok(c, gin.H{"message": "Workspace deleted successfully."})
}
