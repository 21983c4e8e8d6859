package models

import (
	"time"
)

const (
	PostTitleMaxLen = 100
	PostTextMaxLen  = 50000
)

type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	GroupID *uint  `gorm:"index" json:"group_id"` // Nullable, 分组删除后置空
	Group   *Group `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Text    string `gorm:"type:text;not null" json:"text"`
	Image   string `json:"image"` // Optional, 图片存储路径引用
	// CreatedAt 只在创建时写入,更新走列级写入,不会覆盖
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

// IsOwner 判断操作者是否为文章作者
func (p *Post) IsOwner(actorID uint) bool {
	return p.UserID == actorID
}
