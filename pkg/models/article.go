package models

import "time"

const TableNameArticle = "articles"

// Attachment 文章附件记录，内嵌在文章的附件列表里
// 只会被追加，不会被删除或重排
type Attachment struct {
	Filename     string `json:"filename"`     // 服务端生成的存储文件名
	OriginalName string `json:"originalname"` // 客户端上传时的原始文件名
	MimeType     string `json:"mimetype"`
	Url          string `json:"url"` // 静态访问路径 /uploads/<filename>
	Size         int64  `json:"size"`
}

// Article 文章主体
type Article struct {
	Id          string       `json:"id" gorm:"column:id;type:varchar(36);primaryKey" badgerhold:"key"`
	Title       string       `json:"title" gorm:"column:title;type:varchar(255);not null"`
	Content     string       `json:"content" gorm:"column:content;type:text;not null"` // 富文本HTML
	Attachments []Attachment `json:"attachments" gorm:"column:attachments;serializer:json"`
	WorkspaceId *string      `json:"workspaceId" gorm:"column:workspaceId;type:varchar(36);index"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"column:createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"column:updatedAt"`
	Workspace   *Workspace   `json:"workspace,omitempty" gorm:"foreignKey:WorkspaceId;references:Id"`
	Comments    []Comment    `json:"comments" gorm:"foreignKey:ArticleId;references:Id"`
}

func (*Article) TableName() string {
	return TableNameArticle
}

// ArticleSummary 列表接口用的精简结构
type ArticleSummary struct {
	Id          string  `json:"id" gorm:"column:id"`
	Title       string  `json:"title" gorm:"column:title"`
	WorkspaceId *string `json:"workspaceId" gorm:"column:workspaceId"`
}
