package store

import (
	"sort"
	"time"

	"articledesk/pkg/models"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/timshannon/badgerhold/v4"
	"go.uber.org/zap"
)

type badgerStore struct {
	store *badgerhold.Store
}

// NewBadgerStore 基于badger的flat-file存储实现
// 早期版本把文章落在本地文件里，这个模式保留下来兼容老部署
func NewBadgerStore(dir string) (Store, error) {
	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil
	st, err := badgerhold.Open(options)
	if err != nil {
		return nil, errors.Wrap(err, "打开badger存储失败")
	}
	return &badgerStore{store: st}, nil
}

func (s *badgerStore) ListWorkspaces() ([]models.Workspace, error) {
	list := make([]models.Workspace, 0)
	if err := s.store.Find(&list, &badgerhold.Query{}); err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *badgerStore) CreateWorkspace(w *models.Workspace) error {
	stampNow(&w.CreatedAt, &w.UpdatedAt)
	return s.store.Insert(w.Id, w)
}

func (s *badgerStore) DeleteWorkspace(id string) error {
	var ws models.Workspace
	if err := s.store.Get(id, &ws); err != nil {
		return translateBadgerErr(err)
	}
	var articles []models.Article
	if err := s.store.Find(&articles, &badgerhold.Query{}); err != nil {
		return err
	}
	owned := lo.Filter(articles, func(a models.Article, _ int) bool {
		return a.WorkspaceId != nil && *a.WorkspaceId == id
	})
	for _, a := range owned {
		if err := s.deleteArticleCascade(a.Id); err != nil {
			return err
		}
	}
	return s.store.Delete(id, &models.Workspace{})
}

func (s *badgerStore) ListArticles(workspaceId string) ([]models.ArticleSummary, error) {
	var articles []models.Article
	if err := s.store.Find(&articles, &badgerhold.Query{}); err != nil {
		return nil, err
	}
	if workspaceId != "" {
		articles = lo.Filter(articles, func(a models.Article, _ int) bool {
			return a.WorkspaceId != nil && *a.WorkspaceId == workspaceId
		})
	}
	//创建时间倒序，和db模式保持一致
	sort.Slice(articles, func(i, j int) bool { return articles[i].CreatedAt.After(articles[j].CreatedAt) })
	return lo.Map(articles, func(a models.Article, _ int) models.ArticleSummary {
		return models.ArticleSummary{Id: a.Id, Title: a.Title, WorkspaceId: a.WorkspaceId}
	}), nil
}

func (s *badgerStore) GetArticle(id string) (*models.Article, error) {
	var article models.Article
	if err := s.store.Get(id, &article); err != nil {
		return nil, translateBadgerErr(err)
	}
	comments, err := s.ListComments(id)
	if err != nil {
		return nil, err
	}
	article.Comments = comments
	if article.Attachments == nil {
		article.Attachments = []models.Attachment{}
	}
	if article.WorkspaceId != nil {
		var ws models.Workspace
		if err := s.store.Get(*article.WorkspaceId, &ws); err == nil {
			article.Workspace = &ws
		}
	}
	return &article, nil
}

func (s *badgerStore) CreateArticle(a *models.Article) error {
	stampNow(&a.CreatedAt, &a.UpdatedAt)
	return s.store.Insert(a.Id, a)
}

func (s *badgerStore) UpdateArticle(id, title, content string) error {
	var article models.Article
	if err := s.store.Get(id, &article); err != nil {
		return translateBadgerErr(err)
	}
	article.Title = title
	article.Content = content
	article.UpdatedAt = time.Now().UTC()
	return s.store.Upsert(id, &article)
}

func (s *badgerStore) DeleteArticle(id string) error {
	var article models.Article
	if err := s.store.Get(id, &article); err != nil {
		return translateBadgerErr(err)
	}
	return s.deleteArticleCascade(id)
}

func (s *badgerStore) deleteArticleCascade(id string) error {
	query := badgerhold.Where("ArticleId").Eq(id)
	if err := s.store.DeleteMatching(&models.Comment{}, query); err != nil {
		zap.S().Errorf("删除文章评论失败: %v", err)
		return err
	}
	return s.store.Delete(id, &models.Article{})
}

func (s *badgerStore) AppendAttachment(articleId string, att models.Attachment) error {
	var article models.Article
	if err := s.store.Get(articleId, &article); err != nil {
		return translateBadgerErr(err)
	}
	article.Attachments = append(article.Attachments, att)
	article.UpdatedAt = time.Now().UTC()
	return s.store.Upsert(articleId, &article)
}

func (s *badgerStore) ListComments(articleId string) ([]models.Comment, error) {
	list := make([]models.Comment, 0)
	if err := s.store.Find(&list, badgerhold.Where("ArticleId").Eq(articleId)); err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (s *badgerStore) CreateComment(cm *models.Comment) error {
	var article models.Article
	if err := s.store.Get(cm.ArticleId, &article); err != nil {
		return translateBadgerErr(err)
	}
	stampNow(&cm.CreatedAt, &cm.UpdatedAt)
	return s.store.Insert(cm.Id, cm)
}

func (s *badgerStore) UpdateComment(id, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.store.Get(id, &comment); err != nil {
		return nil, translateBadgerErr(err)
	}
	if content == "" {
		return &comment, nil
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.store.Upsert(id, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *badgerStore) DeleteComment(id string) error {
	var comment models.Comment
	if err := s.store.Get(id, &comment); err != nil {
		return translateBadgerErr(err)
	}
	return s.store.Delete(id, &models.Comment{})
}

func (s *badgerStore) Close() error {
	return s.store.Close()
}

func stampNow(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

func translateBadgerErr(err error) error {
	if errors.Is(err, badgerhold.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
