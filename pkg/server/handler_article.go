package server

import (
	"net/http"
	"strings"

	"articledesk/pkg/hub"
	"articledesk/pkg/models"
	"articledesk/pkg/store"
	"articledesk/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListArticles 获取文章列表
// @Summary      获取文章列表
// @Description  返回文章摘要，可按工作区过滤，按创建时间倒序
// @Tags         articles
// @Produce      json
// @Param        workspaceId  query  string  false  "工作区ID"
// @Success      200  {array}  models.ArticleSummary
// @Router       /articles [get]
func (h *Handler) ListArticles(c *gin.Context) {
	workspaceId := c.Query("workspaceId")
	list, err := h.store.ListArticles(workspaceId)
	if err != nil {
		zap.S().Errorf("查询文章列表失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to read articles.")
		return
	}
	util.Ok(c, list)
}

// GetArticle 获取文章详情
// @Summary      获取文章详情
// @Description  返回完整文章，包含评论和所属工作区
// @Tags         articles
// @Produce      json
// @Param        id  path  string  true  "文章ID"
// @Success      200  {object}  models.Article
// @Router       /articles/{id} [get]
func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.store.GetArticle(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Article not found.")
			return
		}
		zap.S().Errorf("查询文章失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to read article.")
		return
	}
	util.Ok(c, article)
}

// CreateArticle 创建文章
// @Summary      创建文章
// @Tags         articles
// @Accept       json
// @Produce      json
// @Success      201  {object}  gin.H
// @Router       /articles [post]
func (h *Handler) CreateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Title and content are required.")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		util.Fail(c, http.StatusBadRequest, "Title and content are required.")
		return
	}
	//空字符串的workspaceId按未指定处理
	if req.WorkspaceId != nil && *req.WorkspaceId == "" {
		req.WorkspaceId = nil
	}

	article := &models.Article{
		Id:          uuid.NewString(),
		Title:       req.Title,
		Content:     req.Content,
		Attachments: []models.Attachment{},
		WorkspaceId: req.WorkspaceId,
	}
	if err := h.store.CreateArticle(article); err != nil {
		zap.S().Errorf("保存文章失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to save article.")
		return
	}
	util.Created(c, gin.H{"message": "Article created successfully.", "id": article.Id})
}

// UpdateArticle 更新文章
// @Summary      更新文章标题和正文
// @Description  附件和工作区归属不受影响，成功后广播 article_updated 事件
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "文章ID"
// @Success      200  {object}  gin.H
// @Router       /articles/{id} [put]
func (h *Handler) UpdateArticle(c *gin.Context) {
	var req ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Title and content are required.")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		util.Fail(c, http.StatusBadRequest, "Title and content are required.")
		return
	}

	id := c.Param("id")
	if err := h.store.UpdateArticle(id, req.Title, req.Content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Article not found.")
			return
		}
		zap.S().Errorf("更新文章失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to update article.")
		return
	}

	h.notify(hub.Event{Type: hub.EventArticleUpdated, Id: id, Message: "Article updated."})
	util.Ok(c, gin.H{"message": "Article updated successfully."})
}

// DeleteArticle 删除文章
// @Summary      删除文章
// @Description  级联删除文章下的所有评论
// @Tags         articles
// @Produce      json
// @Param        id  path  string  true  "文章ID"
// @Success      200  {object}  gin.H
// @Router       /articles/{id} [delete]
func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.store.DeleteArticle(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Article not found.")
			return
		}
		zap.S().Errorf("删除文章失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to delete article.")
		return
	}
	util.Ok(c, gin.H{"message": "Article deleted successfully."})
}
