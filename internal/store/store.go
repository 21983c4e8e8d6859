package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"molin/internal/models"

	"gorm.io/gorm"
)

// Store 统一持久层入口,所有实体的增删改查和级联规则都在这里。
// 级联/置空语义用显式事务实现,不依赖数据库外键的隐式行为,
// 保证换存储引擎时语义不变。
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate 把 gorm 错误翻译为 store 错误分类
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}

// ---------- User ----------

func (s *Store) CreateUser(user *models.User) error {
	if user.Username == "" || user.Email == "" || user.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	return translate(s.db.Create(user).Error)
}

func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// DeleteUser 删除用户并在同一事务内级联:
// 该用户写的评论、该用户文章下的评论、该用户的文章、
// 该用户两个方向的关注关系,最后是用户本身。
func (s *Store) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---------- Group ----------

func (s *Store) CreateGroup(group *models.Group) error {
	if group.Title == "" || group.Slug == "" {
		return fmt.Errorf("%w: group title and slug are required", ErrValidation)
	}
	return translate(s.db.Create(group).Error)
}

func (s *Store) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, id).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *Store) GetGroupBySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, translate(err)
	}
	return &group, nil
}

func (s *Store) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Store) UpdateGroup(id uint, title, slug, description string) error {
	if title == "" || slug == "" {
		return fmt.Errorf("%w: group title and slug are required", ErrValidation)
	}
	res := s.db.Model(&models.Group{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"slug":        slug,
		"description": description,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGroup 删除分组,同一事务内把引用它的文章 group_id 置空,文章保留
func (s *Store) DeleteGroup(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---------- Post ----------

func validatePost(title, text string) error {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > models.PostTitleMaxLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrValidation, models.PostTitleMaxLen)
	}
	if text == "" || utf8.RuneCountInString(text) > models.PostTextMaxLen {
		return fmt.Errorf("%w: text must be 1-%d characters", ErrValidation, models.PostTextMaxLen)
	}
	return nil
}

func (s *Store) CreatePost(post *models.Post) error {
	if err := validatePost(post.Title, post.Text); err != nil {
		return err
	}
	// 显式校验外键引用,不依赖具体数据库的外键支持
	if err := s.db.First(&models.User{}, post.UserID).Error; err != nil {
		return fmt.Errorf("%w: author %d does not exist", ErrIntegrity, post.UserID)
	}
	if post.GroupID != nil {
		if err := s.db.First(&models.Group{}, *post.GroupID).Error; err != nil {
			return fmt.Errorf("%w: group %d does not exist", ErrIntegrity, *post.GroupID)
		}
	}
	return translate(s.db.Create(post).Error)
}

func (s *Store) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").Preload("Group").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// UpdatePost 列级更新,created_at 永不改写
func (s *Store) UpdatePost(id uint, title, text string, groupID *uint, image string) error {
	if err := validatePost(title, text); err != nil {
		return err
	}
	if groupID != nil {
		if err := s.db.First(&models.Group{}, *groupID).Error; err != nil {
			return fmt.Errorf("%w: group %d does not exist", ErrIntegrity, *groupID)
		}
	}
	res := s.db.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":    title,
		"text":     text,
		"group_id": groupID,
		"image":    image,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost 删除文章,同一事务内级联删除文章下的评论
func (s *Store) DeletePost(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Store) CountPostsByAuthor(authorID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Post{}).Where("user_id = ?", authorID).Count(&count).Error
	return count, err
}

// listPosts 统一的分页查询:先数总量,再取一页,按发布时间倒序
func (s *Store) listPosts(scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := scope(s.db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := scope(s.db.Preload("User").Preload("Group")).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Store) ListPosts(limit, offset int) ([]models.Post, int64, error) {
	return s.listPosts(func(q *gorm.DB) *gorm.DB { return q }, limit, offset)
}

func (s *Store) ListPostsByGroup(groupID uint, limit, offset int) ([]models.Post, int64, error) {
	return s.listPosts(func(q *gorm.DB) *gorm.DB {
		return q.Where("group_id = ?", groupID)
	}, limit, offset)
}

func (s *Store) ListPostsByAuthor(authorID uint, limit, offset int) ([]models.Post, int64, error) {
	return s.listPosts(func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", authorID)
	}, limit, offset)
}

func (s *Store) ListPostsByAuthors(authorIDs []uint, limit, offset int) ([]models.Post, int64, error) {
	return s.listPosts(func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id IN ?", authorIDs)
	}, limit, offset)
}

// ---------- Comment ----------

func (s *Store) CreateComment(comment *models.Comment) error {
	text := strings.TrimSpace(comment.Text)
	if text == "" || utf8.RuneCountInString(text) > models.CommentTextMaxLen {
		return fmt.Errorf("%w: comment must be 1-%d characters", ErrValidation, models.CommentTextMaxLen)
	}
	comment.Text = text
	if err := s.db.First(&models.Post{}, comment.PostID).Error; err != nil {
		return fmt.Errorf("%w: post %d does not exist", ErrIntegrity, comment.PostID)
	}
	if err := s.db.First(&models.User{}, comment.UserID).Error; err != nil {
		return fmt.Errorf("%w: author %d does not exist", ErrIntegrity, comment.UserID)
	}
	return translate(s.db.Create(comment).Error)
}

func (s *Store) ListCommentsForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Store) CountCommentsForPost(postID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CommentCounts 批量查询一组文章的评论数量
func (s *Store) CommentCounts(postIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int)
	if len(postIDs) == 0 {
		return counts, nil
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

// ---------- Follow ----------

// CreateFollow 直接插入,依赖存储层唯一索引拒绝重复,
// 避免并发下 check-then-insert 的竞态
func (s *Store) CreateFollow(userID, authorID uint) error {
	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFollow
		}
		return translate(err)
	}
	return nil
}

// DeleteFollow 取消关注,关系不存在时静默成功
func (s *Store) DeleteFollow(userID, authorID uint) error {
	return s.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

func (s *Store) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) FollowedAuthorIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Follow{}).Where("user_id = ?", userID).Pluck("author_id", &ids).Error
	return ids, err
}
