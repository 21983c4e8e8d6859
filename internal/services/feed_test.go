package services

import (
	"errors"
	"fmt"
	"testing"

	"molin/internal/models"
	"molin/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return store.New(db)
}

func mustCreateUser(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	if err := s.CreateUser(&user); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

func mustCreatePosts(t *testing.T, s *store.Store, userID uint, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		post := models.Post{
			UserID: userID,
			Title:  fmt.Sprintf("文章 %d", i),
			Text:   "正文内容",
		}
		if err := s.CreatePost(&post); err != nil {
			t.Fatalf("Failed to create post %d: %v", i, err)
		}
	}
}

func TestGlobalFeedPagination(t *testing.T) {
	s := testStore(t)
	user := mustCreateUser(t, s, "alice")
	mustCreatePosts(t, s, user.ID, 123)

	feed := NewFeedService(s, 10)

	// 第一页满页
	page, err := feed.Global(1)
	if err != nil {
		t.Fatalf("Failed to load page 1: %v", err)
	}
	if len(page.Posts) != 10 {
		t.Errorf("Expected 10 posts on page 1, got %d", len(page.Posts))
	}
	if page.Total != 123 {
		t.Errorf("Expected total 123, got %d", page.Total)
	}
	if page.TotalPages != 13 {
		t.Errorf("Expected 13 total pages, got %d", page.TotalPages)
	}
	if page.HasPrevious {
		t.Error("Page 1 should not have previous")
	}
	if !page.HasNext {
		t.Error("Page 1 should have next")
	}

	// 末页只有零头
	page, err = feed.Global(13)
	if err != nil {
		t.Fatalf("Failed to load page 13: %v", err)
	}
	if len(page.Posts) != 3 {
		t.Errorf("Expected 3 posts on page 13, got %d", len(page.Posts))
	}
	if page.HasNext {
		t.Error("Last page should not have next")
	}

	// 超出末页返回空页,不报错
	page, err = feed.Global(14)
	if err != nil {
		t.Fatalf("Failed to load page 14: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Errorf("Expected empty page beyond last, got %d posts", len(page.Posts))
	}

	// 0 和负数按第 1 页处理
	page, err = feed.Global(0)
	if err != nil {
		t.Fatalf("Failed to load page 0: %v", err)
	}
	if page.Number != 1 || len(page.Posts) != 10 {
		t.Errorf("Expected page 0 to normalize to page 1, got page %d with %d posts", page.Number, len(page.Posts))
	}
}

func TestGlobalFeedEmpty(t *testing.T) {
	s := testStore(t)
	feed := NewFeedService(s, 10)

	page, err := feed.Global(1)
	if err != nil {
		t.Fatalf("Failed to load empty feed: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Errorf("Expected empty feed, got %d posts", len(page.Posts))
	}
	// 空库也至少有 1 页
	if page.TotalPages != 1 {
		t.Errorf("Expected 1 total page for empty feed, got %d", page.TotalPages)
	}
}

func TestGroupFeed(t *testing.T) {
	s := testStore(t)
	user := mustCreateUser(t, s, "alice")

	group := models.Group{Title: "技术", Slug: "tech"}
	if err := s.CreateGroup(&group); err != nil {
		t.Fatalf("Failed to create group: %v", err)
	}

	inGroup := models.Post{UserID: user.ID, GroupID: &group.ID, Title: "组内文章", Text: "正文"}
	if err := s.CreatePost(&inGroup); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	outside := models.Post{UserID: user.ID, Title: "组外文章", Text: "正文"}
	if err := s.CreatePost(&outside); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}

	feed := NewFeedService(s, 10)

	got, page, err := feed.Group("tech", 1)
	if err != nil {
		t.Fatalf("Failed to load group feed: %v", err)
	}
	if got.ID != group.ID {
		t.Errorf("Expected group %d, got %d", group.ID, got.ID)
	}
	if len(page.Posts) != 1 || page.Posts[0].ID != inGroup.ID {
		t.Errorf("Expected only the in-group post, got %d posts", len(page.Posts))
	}

	// 未知 slug
	_, _, err = feed.Group("missing", 1)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown slug, got %v", err)
	}
}

func TestProfileFeed(t *testing.T) {
	s := testStore(t)
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	mustCreatePosts(t, s, alice.ID, 3)
	mustCreatePosts(t, s, bob.ID, 1)

	if err := s.CreateFollow(bob.ID, alice.ID); err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}

	feed := NewFeedService(s, 10)

	// bob 访问 alice 的主页,已关注
	profile, err := feed.Profile("alice", bob.ID, 1)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if profile.Author.ID != alice.ID {
		t.Errorf("Expected author %d, got %d", alice.ID, profile.Author.ID)
	}
	if profile.PostCount != 3 {
		t.Errorf("Expected post count 3, got %d", profile.PostCount)
	}
	if len(profile.Posts) != 3 {
		t.Errorf("Expected 3 posts, got %d", len(profile.Posts))
	}
	if !profile.IsFollowing {
		t.Error("Expected IsFollowing true for follower")
	}
	for _, p := range profile.Posts {
		if p.UserID != alice.ID {
			t.Errorf("Profile feed leaked post %d by user %d", p.ID, p.UserID)
		}
	}

	// 未登录访问者
	profile, err = feed.Profile("alice", 0, 1)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if profile.IsFollowing {
		t.Error("Expected IsFollowing false for guest")
	}

	// 未知用户
	_, err = feed.Profile("missing", 0, 1)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestFollowingFeed(t *testing.T) {
	s := testStore(t)
	reader := mustCreateUser(t, s, "reader")
	followed := mustCreateUser(t, s, "followed")
	stranger := mustCreateUser(t, s, "stranger")
	mustCreatePosts(t, s, followed.ID, 2)
	mustCreatePosts(t, s, stranger.ID, 5)

	feed := NewFeedService(s, 10)

	// 没有任何关注时返回空页
	page, err := feed.Following(reader.ID, 1)
	if err != nil {
		t.Fatalf("Failed to load following feed: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Errorf("Expected empty feed with no follows, got %d posts", len(page.Posts))
	}

	if err := s.CreateFollow(reader.ID, followed.ID); err != nil {
		t.Fatalf("Failed to create follow: %v", err)
	}

	// 只包含关注作者的文章
	page, err = feed.Following(reader.ID, 1)
	if err != nil {
		t.Fatalf("Failed to load following feed: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Errorf("Expected 2 posts from followed author, got %d", len(page.Posts))
	}
	for _, p := range page.Posts {
		if p.UserID != followed.ID {
			t.Errorf("Following feed leaked post %d by user %d", p.ID, p.UserID)
		}
	}

	// 取关后重新变空
	if err := s.DeleteFollow(reader.ID, followed.ID); err != nil {
		t.Fatalf("Failed to delete follow: %v", err)
	}
	page, err = feed.Following(reader.ID, 1)
	if err != nil {
		t.Fatalf("Failed to load following feed: %v", err)
	}
	if len(page.Posts) != 0 {
		t.Errorf("Expected empty feed after unfollow, got %d posts", len(page.Posts))
	}
}

func TestFeedCommentCounts(t *testing.T) {
	s := testStore(t)
	user := mustCreateUser(t, s, "alice")
	mustCreatePosts(t, s, user.ID, 2)

	posts, _, err := s.ListPosts(10, 0)
	if err != nil {
		t.Fatalf("Failed to list posts: %v", err)
	}
	target := posts[0]
	c := models.Comment{PostID: target.ID, UserID: user.ID, Text: "评论"}
	if err := s.CreateComment(&c); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	feed := NewFeedService(s, 10)
	page, err := feed.Global(1)
	if err != nil {
		t.Fatalf("Failed to load feed: %v", err)
	}
	for _, p := range page.Posts {
		want := 0
		if p.ID == target.ID {
			want = 1
		}
		if p.CommentCount != want {
			t.Errorf("Post %d: expected %d comments, got %d", p.ID, want, p.CommentCount)
		}
	}
}
