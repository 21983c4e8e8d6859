package services

import (
	"molin/internal/store"
)

// FollowService 关注/取关的业务规则
type FollowService struct {
	store *store.Store
}

func NewFollowService(s *store.Store) *FollowService {
	return &FollowService{store: s}
}

// Follow 关注一位作者。
// 不允许关注自己;重复关注由存储层唯一索引拒绝,返回 ErrDuplicateFollow。
func (s *FollowService) Follow(followerID, authorID uint) error {
	if followerID == authorID {
		return store.ErrSelfFollow
	}
	if _, err := s.store.GetUserByID(authorID); err != nil {
		return err
	}
	return s.store.CreateFollow(followerID, authorID)
}

// Unfollow 取消关注,关系不存在时静默成功
func (s *FollowService) Unfollow(followerID, authorID uint) error {
	return s.store.DeleteFollow(followerID, authorID)
}

func (s *FollowService) IsFollowing(followerID, authorID uint) (bool, error) {
	return s.store.IsFollowing(followerID, authorID)
}
