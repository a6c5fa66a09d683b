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

// ListComments 获取文章评论列表
// @Summary      获取文章评论列表
// @Description  按创建时间正序
// @Tags         comments
// @Produce      json
// @Param        id  path  string  true  "文章ID"
// @Success      200  {array}  models.Comment
// @Router       /articles/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	list, err := h.store.ListComments(c.Param("id"))
	if err != nil {
		zap.S().Errorf("查询评论列表失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to read comments.")
		return
	}
	util.Ok(c, list)
}

// CreateComment 创建评论
// @Summary      创建评论
// @Description  author缺省时记为Anonymous
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "文章ID"
// @Success      201  {object}  models.Comment
// @Router       /articles/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Content is required.")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		util.Fail(c, http.StatusBadRequest, "Content is required.")
		return
	}

	author := models.AnonymousAuthor
	if req.Author != nil && strings.TrimSpace(*req.Author) != "" {
		author = *req.Author
	}

	comment := &models.Comment{
		Id:        uuid.NewString(),
		Content:   req.Content,
		Author:    author,
		ArticleId: c.Param("id"),
	}
	if err := h.store.CreateComment(comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Article not found.")
			return
		}
		zap.S().Errorf("保存评论失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to save comment.")
		return
	}
	util.Created(c, comment)
}

// UpdateComment 更新评论
// @Summary      更新评论内容
// @Description  content为空时保留原值
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "评论ID"
// @Success      200  {object}  models.Comment
// @Router       /comments/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	var req CommentUpdateRequest
	//请求体可以整个省略，等价于空content
	_ = c.ShouldBindJSON(&req)

	comment, err := h.store.UpdateComment(c.Param("id"), req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Comment not found.")
			return
		}
		zap.S().Errorf("更新评论失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to update comment.")
		return
	}
	util.Ok(c, comment)
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Tags         comments
// @Produce      json
// @Param        id  path  string  true  "评论ID"
// @Success      200  {object}  gin.H
// @Router       /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.store.DeleteComment(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Comment not found.")
			return
		}
		zap.S().Errorf("删除评论失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to delete comment.")
		return
	}
	util.Ok(c, gin.H{"message": "Comment deleted successfully."})
}
