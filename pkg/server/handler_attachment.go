package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"articledesk/pkg/hub"
	"articledesk/pkg/models"
	"articledesk/pkg/store"
	"articledesk/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 附件类型白名单
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// UploadAttachment 上传文章附件
// @Summary      上传文章附件
// @Description  multipart的file字段，类型限定JPEG/PNG/GIF/PDF，成功后广播 attachment_added 事件
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "文章ID"
// @Param        file  formData  file    true  "附件文件"
// @Success      201  {object}  gin.H
// @Router       /articles/{id}/attachments [post]
func (h *Handler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "File is required.")
		return
	}

	//入库前先校验类型，不合法的文件不落盘
	mimeType := file.Header.Get("Content-Type")
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		util.Fail(c, http.StatusBadRequest, "Unsupported file type.")
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		zap.S().Errorf("创建上传目录失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to store file.")
		return
	}
	dst := filepath.Join(h.cfg.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		zap.S().Errorf("保存上传文件失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	attachment := models.Attachment{
		Filename:     filename,
		OriginalName: file.Filename,
		MimeType:     mimeType,
		Url:          "/uploads/" + filename,
		Size:         file.Size,
	}

	articleId := c.Param("id")
	if err := h.store.AppendAttachment(articleId, attachment); err != nil {
		//文件已经落盘，挂接失败时清掉，避免孤儿文件
		if rmErr := os.Remove(dst); rmErr != nil {
			zap.S().Warnf("清理孤儿文件失败 %s: %v", dst, rmErr)
		}
		if errors.Is(err, store.ErrNotFound) {
			util.Fail(c, http.StatusNotFound, "Article not found.")
			return
		}
		zap.S().Errorf("追加附件记录失败: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Failed to save attachment.")
		return
	}

	h.notify(hub.Event{
		Type:    hub.EventAttachmentAdded,
		Id:      articleId,
		Message: fmt.Sprintf("Attachment %s added.", attachment.OriginalName),
	})
	util.Created(c, gin.H{"message": "Attachment uploaded successfully.", "attachment": attachment})
}
