package store

import (
	"articledesk/pkg/models"

	"github.com/pkg/errors"
)

// ErrNotFound 目标记录不存在
var ErrNotFound = errors.New("record not found")

// Store 持久化层接口
// db 模式（mysql/postgres）和 file 模式（badger，历史遗留）各有一个实现，
// 两个实现的级联删除语义保持一致
type Store interface {
	ListWorkspaces() ([]models.Workspace, error)
	CreateWorkspace(w *models.Workspace) error
	DeleteWorkspace(id string) error

	// ListArticles 返回文章摘要列表，workspaceId 为空时不过滤，按创建时间倒序
	ListArticles(workspaceId string) ([]models.ArticleSummary, error)
	// GetArticle 返回完整文章，包含评论列表和所属工作区
	GetArticle(id string) (*models.Article, error)
	CreateArticle(a *models.Article) error
	// UpdateArticle 只覆盖标题和正文，附件与工作区归属保持不变
	UpdateArticle(id, title, content string) error
	DeleteArticle(id string) error
	// AppendAttachment 把附件记录追加到文章的附件列表末尾
	AppendAttachment(articleId string, att models.Attachment) error

	// ListComments 按创建时间正序返回文章的全部评论
	ListComments(articleId string) ([]models.Comment, error)
	// CreateComment 要求 cm.ArticleId 指向已存在的文章
	CreateComment(cm *models.Comment) error
	// UpdateComment content 为空时保留原值
	UpdateComment(id, content string) (*models.Comment, error)
	DeleteComment(id string) error

	Close() error
}
