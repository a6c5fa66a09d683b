package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"articledesk/pkg/hub"
	"articledesk/pkg/models"
	"articledesk/pkg/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHandler 在badger临时目录上拉起完整的路由
func newTestHandler(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := NewDefaultConfig()
	cfg.UploadDir = t.TempDir()

	handler := NewHandler(cfg, st, hub.NewHub(), nil)
	engine := gin.New()
	InitRouter(engine, handler, cfg.UploadDir)
	return engine, handler
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createArticle(t *testing.T, engine *gin.Engine, title, content string, workspaceId *string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/articles", ArticleRequest{Title: title, Content: content, WorkspaceId: workspaceId})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Id string `json:"id"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Id)
	return resp.Id
}

func TestCreateArticleValidation(t *testing.T) {
	engine, _ := newTestHandler(t)

	for _, body := range []gin.H{
		{"title": "", "content": "<p>hi</p>"},
		{"title": "Hi", "content": ""},
		{"title": "Hi"},
		{},
	} {
		w := doJSON(t, engine, http.MethodPost, "/articles", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Title and content are required."}`, w.Body.String())
	}

	//校验失败时不落库
	w := doJSON(t, engine, http.MethodGet, "/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ArticleSummary
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestGetArticleNotFound(t *testing.T) {
	engine, _ := newTestHandler(t)

	w := doJSON(t, engine, http.MethodGet, "/articles/missing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Article not found."}`, w.Body.String())
}

func TestWorkspaceScenario(t *testing.T) {
	engine, _ := newTestHandler(t)

	w := doJSON(t, engine, http.MethodPost, "/workspaces", WorkspaceRequest{Name: "Team A"})
	require.Equal(t, http.StatusCreated, w.Code)
	var ws models.Workspace
	decode(t, w, &ws)
	require.NotEmpty(t, ws.Id)
	assert.Equal(t, "Team A", ws.Name)

	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", &ws.Id)

	w = doJSON(t, engine, http.MethodGet, "/articles?workspaceId="+ws.Id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ArticleSummary
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Hi", list[0].Title)
	assert.Equal(t, articleId, list[0].Id)

	//详情里带工作区名称和空评论列表
	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var article models.Article
	decode(t, w, &article)
	require.NotNil(t, article.Workspace)
	assert.Equal(t, "Team A", article.Workspace.Name)
	assert.Empty(t, article.Comments)
	assert.Empty(t, article.Attachments)
}

func TestCreateWorkspaceValidation(t *testing.T) {
	engine, _ := newTestHandler(t)

	w := doJSON(t, engine, http.MethodPost, "/workspaces", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Name is required."}`, w.Body.String())
}

func TestUpdateArticle(t *testing.T) {
	engine, _ := newTestHandler(t)

	ws := createWorkspace(t, engine, "Team A")
	articleId := createArticle(t, engine, "old", "<p>old</p>", &ws)

	w := doJSON(t, engine, http.MethodPut, "/articles/"+articleId, ArticleRequest{Title: "new", Content: "<p>new</p>"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var article models.Article
	decode(t, w, &article)
	assert.Equal(t, "new", article.Title)
	assert.Equal(t, "<p>new</p>", article.Content)
	require.NotNil(t, article.WorkspaceId)
	assert.Equal(t, ws, *article.WorkspaceId)
	assert.Empty(t, article.Attachments)

	w = doJSON(t, engine, http.MethodPut, "/articles/missing-id", ArticleRequest{Title: "t", Content: "c"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodPut, "/articles/"+articleId, ArticleRequest{Title: "", Content: "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func createWorkspace(t *testing.T, engine *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/workspaces", WorkspaceRequest{Name: name})
	require.Equal(t, http.StatusCreated, w.Code)
	var ws models.Workspace
	decode(t, w, &ws)
	return ws.Id
}

func TestDeleteArticleCascadesComments(t *testing.T) {
	engine, _ := newTestHandler(t)

	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", nil)
	w := doJSON(t, engine, http.MethodPost, "/articles/"+articleId+"/comments", gin.H{"content": "nice", "author": "Bob"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/articles/"+articleId, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []models.Comment
	decode(t, w, &comments)
	assert.Empty(t, comments)

	w = doJSON(t, engine, http.MethodDelete, "/articles/"+articleId, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWorkspaceCascadesArticles(t *testing.T) {
	engine, _ := newTestHandler(t)

	ws := createWorkspace(t, engine, "Team A")
	createArticle(t, engine, "inside", "<p>1</p>", &ws)
	createArticle(t, engine, "outside", "<p>2</p>", nil)

	w := doJSON(t, engine, http.MethodDelete, "/workspaces/"+ws, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/articles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ArticleSummary
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "outside", list[0].Title)
}

func TestCommentEndpoints(t *testing.T) {
	engine, _ := newTestHandler(t)

	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", nil)

	w := doJSON(t, engine, http.MethodPost, "/articles/"+articleId+"/comments", gin.H{"content": "nice", "author": "Bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	var comment models.Comment
	decode(t, w, &comment)
	assert.Equal(t, "Bob", comment.Author)
	assert.Equal(t, "nice", comment.Content)

	//未署名时默认Anonymous
	w = doJSON(t, engine, http.MethodPost, "/articles/"+articleId+"/comments", gin.H{"content": "+1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var anon models.Comment
	decode(t, w, &anon)
	assert.Equal(t, models.AnonymousAuthor, anon.Author)

	w = doJSON(t, engine, http.MethodPost, "/articles/"+articleId+"/comments", gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/articles/missing-id/comments", gin.H{"content": "nice"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Comment
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "nice", list[0].Content)

	//空content保留原值
	w = doJSON(t, engine, http.MethodPut, "/comments/"+comment.Id, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Comment
	decode(t, w, &updated)
	assert.Equal(t, "nice", updated.Content)

	w = doJSON(t, engine, http.MethodPut, "/comments/"+comment.Id, gin.H{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, "edited", updated.Content)

	w = doJSON(t, engine, http.MethodPut, "/comments/missing-id", gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, engine, http.MethodDelete, "/comments/"+comment.Id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, engine, http.MethodDelete, "/comments/"+comment.Id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func uploadRequest(t *testing.T, path, filename, mimeType string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadAttachment(t *testing.T) {
	engine, handler := newTestHandler(t)
	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", nil)

	//类型不在白名单里，直接拒绝，不落盘
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, uploadRequest(t, "/articles/"+articleId+"/attachments", "evil.exe", "application/octet-stream", []byte("nope")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unsupported file type."}`, w.Body.String())
	entries, err := os.ReadDir(handler.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	//文章不存在时也不能留下孤儿文件
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, uploadRequest(t, "/articles/missing-id/attachments", "photo.png", "image/png", []byte("png-bytes")))
	assert.Equal(t, http.StatusNotFound, w.Code)
	entries, err = os.ReadDir(handler.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	//缺少file字段
	w = doJSON(t, engine, http.MethodPost, "/articles/"+articleId+"/attachments", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	//正常上传
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, uploadRequest(t, "/articles/"+articleId+"/attachments", "photo.png", "image/png", []byte("png-bytes")))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Attachment models.Attachment `json:"attachment"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "photo.png", resp.Attachment.OriginalName)
	assert.Equal(t, "image/png", resp.Attachment.MimeType)
	assert.Equal(t, int64(len("png-bytes")), resp.Attachment.Size)
	assert.True(t, strings.HasSuffix(resp.Attachment.Filename, ".png"))
	assert.Equal(t, "/uploads/"+resp.Attachment.Filename, resp.Attachment.Url)

	//文件能按url取回
	w = doJSON(t, engine, http.MethodGet, resp.Attachment.Url, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	//附件记录挂在文章上
	w = doJSON(t, engine, http.MethodGet, "/articles/"+articleId, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var article models.Article
	decode(t, w, &article)
	require.Len(t, article.Attachments, 1)
	assert.Equal(t, resp.Attachment.Filename, article.Attachments[0].Filename)
}

func TestUpdateBroadcastsLiveEvent(t *testing.T) {
	engine, _ := newTestHandler(t)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	w := doJSON(t, engine, http.MethodPut, "/articles/"+articleId, ArticleRequest{Title: "new", Content: "<p>new</p>"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt hub.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, hub.EventArticleUpdated, evt.Type)
	assert.Equal(t, articleId, evt.Id)

	//只推送一条
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestUploadBroadcastsLiveEvent(t *testing.T) {
	engine, _ := newTestHandler(t)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	articleId := createArticle(t, engine, "Hi", "<p>hi</p>", nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, uploadRequest(t, "/articles/"+articleId+"/attachments", "doc.pdf", "application/pdf", []byte("pdf-bytes")))
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt hub.Event
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, hub.EventAttachmentAdded, evt.Type)
	assert.Equal(t, articleId, evt.Id)
	assert.Contains(t, evt.Message, "doc.pdf")
}
