package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// APIHandler 定义API处理器接口
type APIHandler interface {
	ListArticles(c *gin.Context)
	GetArticle(c *gin.Context)
	CreateArticle(c *gin.Context)
	UpdateArticle(c *gin.Context)
	DeleteArticle(c *gin.Context)
	UploadAttachment(c *gin.Context)
	ListWorkspaces(c *gin.Context)
	CreateWorkspace(c *gin.Context)
	DeleteWorkspace(c *gin.Context)
	ListComments(c *gin.Context)
	CreateComment(c *gin.Context)
	UpdateComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	LiveUpdates(c *gin.Context)
}

// InitRouter 初始化路由配置
func InitRouter(engine *gin.Engine, handler APIHandler, uploadDir string) {
	engine.Use(CORSMiddleware(), MetricsMiddleware())
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	//实时推送通道挂在根路径上
	engine.GET("/", handler.LiveUpdates)

	//附件静态文件
	engine.Static("/uploads", uploadDir)

	articles := engine.Group("/articles")
	{
		articles.GET("", handler.ListArticles)
		articles.POST("", handler.CreateArticle)
		articles.GET("/:id", handler.GetArticle)
		articles.PUT("/:id", handler.UpdateArticle)
		articles.DELETE("/:id", handler.DeleteArticle)
		articles.POST("/:id/attachments", handler.UploadAttachment)
		articles.GET("/:id/comments", handler.ListComments)
		articles.POST("/:id/comments", handler.CreateComment)
	}

	workspaces := engine.Group("/workspaces")
	{
		workspaces.GET("", handler.ListWorkspaces)
		workspaces.POST("", handler.CreateWorkspace)
		workspaces.DELETE("/:id", handler.DeleteWorkspace)
	}

	comments := engine.Group("/comments")
	{
		comments.PUT("/:id", handler.UpdateComment)
		comments.DELETE("/:id", handler.DeleteComment)
	}

	zap.S().Info("路由注册成功")
}
