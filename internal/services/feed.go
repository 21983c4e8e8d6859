package services

import (
	"math"

	"molin/internal/models"
	"molin/internal/store"
)

// Page 一页文章列表,四种信息流共用的返回结构
type Page struct {
	Posts       []models.Post
	Number      int
	TotalPages  int
	Total       int64
	HasNext     bool
	HasPrevious bool
}

// ProfileFeed 用户主页信息流,额外带作者信息和当前访问者的关注状态
type ProfileFeed struct {
	Page
	Author      models.User
	PostCount   int64
	IsFollowing bool
}

// FeedService 组装各类文章信息流:全站、分组、用户主页、关注
type FeedService struct {
	store    *store.Store
	pageSize int
}

func NewFeedService(s *store.Store, pageSize int) *FeedService {
	return &FeedService{store: s, pageSize: pageSize}
}

func (f *FeedService) PageSize() int {
	return f.pageSize
}

// normalizePage 页码从 1 开始,0 或负数按第 1 页处理
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// newPage 超出末页的请求返回空页,不报错
func (f *FeedService) newPage(posts []models.Post, total int64, page int) Page {
	totalPages := int(math.Ceil(float64(total) / float64(f.pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	return Page{
		Posts:       posts,
		Number:      page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// fillCommentCounts 批量填充文章的评论数量
func (f *FeedService) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	counts, err := f.store.CommentCounts(postIDs)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

// Global 全站信息流,所有文章按发布时间倒序
func (f *FeedService) Global(page int) (Page, error) {
	page = normalizePage(page)
	posts, total, err := f.store.ListPosts(f.pageSize, (page-1)*f.pageSize)
	if err != nil {
		return Page{}, err
	}
	if err := f.fillCommentCounts(posts); err != nil {
		return Page{}, err
	}
	return f.newPage(posts, total, page), nil
}

// Group 分组信息流,slug 不存在时返回 ErrNotFound
func (f *FeedService) Group(slug string, page int) (*models.Group, Page, error) {
	group, err := f.store.GetGroupBySlug(slug)
	if err != nil {
		return nil, Page{}, err
	}

	page = normalizePage(page)
	posts, total, err := f.store.ListPostsByGroup(group.ID, f.pageSize, (page-1)*f.pageSize)
	if err != nil {
		return nil, Page{}, err
	}
	if err := f.fillCommentCounts(posts); err != nil {
		return nil, Page{}, err
	}
	return group, f.newPage(posts, total, page), nil
}

// Profile 用户主页信息流,带文章总数和访问者是否已关注该作者
func (f *FeedService) Profile(username string, viewerID uint, page int) (ProfileFeed, error) {
	author, err := f.store.GetUserByUsername(username)
	if err != nil {
		return ProfileFeed{}, err
	}

	page = normalizePage(page)
	posts, total, err := f.store.ListPostsByAuthor(author.ID, f.pageSize, (page-1)*f.pageSize)
	if err != nil {
		return ProfileFeed{}, err
	}
	if err := f.fillCommentCounts(posts); err != nil {
		return ProfileFeed{}, err
	}

	isFollowing := false
	if viewerID != 0 && viewerID != author.ID {
		isFollowing, err = f.store.IsFollowing(viewerID, author.ID)
		if err != nil {
			return ProfileFeed{}, err
		}
	}

	return ProfileFeed{
		Page:        f.newPage(posts, total, page),
		Author:      *author,
		PostCount:   total,
		IsFollowing: isFollowing,
	}, nil
}

// Following 关注信息流,只含当前用户关注作者的文章;
// 没有任何关注时返回空页,不是错误
func (f *FeedService) Following(viewerID uint, page int) (Page, error) {
	page = normalizePage(page)

	authorIDs, err := f.store.FollowedAuthorIDs(viewerID)
	if err != nil {
		return Page{}, err
	}
	if len(authorIDs) == 0 {
		return f.newPage(nil, 0, page), nil
	}

	posts, total, err := f.store.ListPostsByAuthors(authorIDs, f.pageSize, (page-1)*f.pageSize)
	if err != nil {
		return Page{}, err
	}
	if err := f.fillCommentCounts(posts); err != nil {
		return Page{}, err
	}
	return f.newPage(posts, total, page), nil
}
