package services

import (
	"molin/internal/models"
	"molin/internal/store"
)

// CommentService 给文章追加评论。
// 调用方(路由层)保证已登录,这里假定 authorID 有效。
type CommentService struct {
	store *store.Store
}

func NewCommentService(s *store.Store) *CommentService {
	return &CommentService{store: s}
}

// Add 校验文章存在及评论长度(1-100 字符)后创建评论
func (s *CommentService) Add(postID, authorID uint, text string) (*models.Comment, error) {
	if _, err := s.store.GetPostByID(postID); err != nil {
		return nil, err
	}

	comment := models.Comment{
		PostID: postID,
		UserID: authorID,
		Text:   text,
	}
	if err := s.store.CreateComment(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
