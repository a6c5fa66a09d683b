package store

import (
	"articledesk/pkg/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore 基于关系库的存储实现，打开时自动迁移表结构
func NewGormStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&models.Workspace{}, &models.Article{}, &models.Comment{}); err != nil {
		return nil, errors.Wrap(err, "迁移表结构失败")
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) ListWorkspaces() ([]models.Workspace, error) {
	var list []models.Workspace
	err := s.db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "createdAt"}}).
		Find(&list).Error
	return list, err
}

func (s *gormStore) CreateWorkspace(w *models.Workspace) error {
	return s.db.Create(w).Error
}

func (s *gormStore) DeleteWorkspace(id string) error {
	var ws models.Workspace
	if err := s.db.First(&ws, "id = ?", id).Error; err != nil {
		return translateErr(err)
	}
	//级联：工作区 -> 文章 -> 评论
	return s.db.Transaction(func(tx *gorm.DB) error {
		var articleIds []string
		if err := tx.Model(&models.Article{}).
			Where(map[string]interface{}{"workspaceId": id}).
			Pluck("id", &articleIds).Error; err != nil {
			return err
		}
		if len(articleIds) > 0 {
			if err := tx.Where(map[string]interface{}{"articleId": articleIds}).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", articleIds).Delete(&models.Article{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&ws).Error
	})
}

func (s *gormStore) ListArticles(workspaceId string) ([]models.ArticleSummary, error) {
	query := s.db.Model(&models.Article{}).
		Select("id", "title", "workspaceId").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "createdAt"}, Desc: true})
	if workspaceId != "" {
		query = query.Where(map[string]interface{}{"workspaceId": workspaceId})
	}
	list := make([]models.ArticleSummary, 0)
	err := query.Scan(&list).Error
	return list, err
}

func (s *gormStore) GetArticle(id string) (*models.Article, error) {
	var article models.Article
	err := s.db.
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "createdAt"}})
		}).
		Preload("Workspace").
		First(&article, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	if article.Attachments == nil {
		article.Attachments = []models.Attachment{}
	}
	if article.Comments == nil {
		article.Comments = []models.Comment{}
	}
	return &article, nil
}

func (s *gormStore) CreateArticle(a *models.Article) error {
	return s.db.Create(a).Error
}

func (s *gormStore) UpdateArticle(id, title, content string) error {
	var article models.Article
	if err := s.db.First(&article, "id = ?", id).Error; err != nil {
		return translateErr(err)
	}
	return s.db.Model(&article).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	}).Error
}

func (s *gormStore) DeleteArticle(id string) error {
	var article models.Article
	if err := s.db.First(&article, "id = ?", id).Error; err != nil {
		return translateErr(err)
	}
	//级联删除文章下的评论
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(map[string]interface{}{"articleId": id}).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}

func (s *gormStore) AppendAttachment(articleId string, att models.Attachment) error {
	var article models.Article
	if err := s.db.First(&article, "id = ?", articleId).Error; err != nil {
		return translateErr(err)
	}
	article.Attachments = append(article.Attachments, att)
	return s.db.Model(&article).Update("attachments", article.Attachments).Error
}

func (s *gormStore) ListComments(articleId string) ([]models.Comment, error) {
	list := make([]models.Comment, 0)
	err := s.db.
		Where(map[string]interface{}{"articleId": articleId}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "createdAt"}}).
		Find(&list).Error
	return list, err
}

func (s *gormStore) CreateComment(cm *models.Comment) error {
	var count int64
	if err := s.db.Model(&models.Article{}).Where("id = ?", cm.ArticleId).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return s.db.Create(cm).Error
}

func (s *gormStore) UpdateComment(id, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	if content == "" {
		return &comment, nil
	}
	if err := s.db.Model(&comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *gormStore) DeleteComment(id string) error {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		return translateErr(err)
	}
	return s.db.Delete(&comment).Error
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
