package models

import "time"

const TableNameComment = "comments"

// AnonymousAuthor 评论未署名时的默认展示名
const AnonymousAuthor = "Anonymous"

// Comment 文章评论
type Comment struct {
	Id        string    `json:"id" gorm:"column:id;type:varchar(36);primaryKey" badgerhold:"key"`
	Content   string    `json:"content" gorm:"column:content;type:text;not null"`
	Author    string    `json:"author" gorm:"column:author;type:varchar(255)"`
	ArticleId string    `json:"articleId" gorm:"column:articleId;type:varchar(36);not null;index" badgerhold:"index"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updatedAt"`
}

func (*Comment) TableName() string {
	return TableNameComment
}
