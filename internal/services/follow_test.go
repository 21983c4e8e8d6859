package services

import (
	"errors"
	"testing"

	"molin/internal/store"
)

func TestFollowSelf(t *testing.T) {
	s := testStore(t)
	alice := mustCreateUser(t, s, "alice")

	svc := NewFollowService(s)

	err := svc.Follow(alice.ID, alice.ID)
	if !errors.Is(err, store.ErrSelfFollow) {
		t.Errorf("Expected ErrSelfFollow, got %v", err)
	}
	// 自关注同时属于校验错误大类
	if !errors.Is(err, store.ErrValidation) {
		t.Error("ErrSelfFollow should also match ErrValidation")
	}

	// 数据库里不应留下任何关系
	following, err := svc.IsFollowing(alice.ID, alice.ID)
	if err != nil {
		t.Fatalf("Failed to check follow: %v", err)
	}
	if following {
		t.Error("Self-follow should not be persisted")
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	s := testStore(t)
	alice := mustCreateUser(t, s, "alice")

	svc := NewFollowService(s)

	err := svc.Follow(alice.ID, 9999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown author, got %v", err)
	}
}

func TestFollowDuplicate(t *testing.T) {
	s := testStore(t)
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	svc := NewFollowService(s)

	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Failed to follow: %v", err)
	}
	err := svc.Follow(alice.ID, bob.ID)
	if !errors.Is(err, store.ErrDuplicateFollow) {
		t.Errorf("Expected ErrDuplicateFollow, got %v", err)
	}

	// 重复关注失败后仍然只有一条关系
	ids, err := s.FollowedAuthorIDs(alice.ID)
	if err != nil {
		t.Fatalf("Failed to list followed authors: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected exactly 1 follow relation, got %d", len(ids))
	}
}

func TestUnfollowIdempotent(t *testing.T) {
	s := testStore(t)
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	svc := NewFollowService(s)

	// 未关注时取关静默成功
	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Errorf("Expected silent success, got %v", err)
	}

	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("Failed to follow: %v", err)
	}
	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Errorf("Failed to unfollow: %v", err)
	}
	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Errorf("Second unfollow should succeed, got %v", err)
	}

	following, err := svc.IsFollowing(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Failed to check follow: %v", err)
	}
	if following {
		t.Error("Expected follow to be removed")
	}
}
