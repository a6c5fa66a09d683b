package models

import "time"

const TableNameWorkspace = "workspaces"

// Workspace 工作区，文章的分组容器
// 删除工作区时级联删除其下所有文章（由存储层显式实现）
type Workspace struct {
	Id        string    `json:"id" gorm:"column:id;type:varchar(36);primaryKey" badgerhold:"key"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:createdAt"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updatedAt"`
	Articles  []Article `json:"-" gorm:"foreignKey:WorkspaceId;references:Id"`
}

func (*Workspace) TableName() string {
	return TableNameWorkspace
}
