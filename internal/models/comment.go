package models

import (
	"time"
)

const CommentTextMaxLen = 100

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text      string    `gorm:"size:100;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	// 评论不支持编辑,没有 UpdatedAt
}
