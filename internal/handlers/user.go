package handlers

import (
	"errors"
	"net/http"

	"molin/internal/middleware"
	"molin/internal/models"
	"molin/internal/services"
	"molin/internal/store"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	store   *store.Store
	feed    *services.FeedService
	follows *services.FollowService
}

func NewUserHandler(s *store.Store, feed *services.FeedService, follows *services.FollowService) *UserHandler {
	return &UserHandler{store: s, feed: feed, follows: follows}
}

// Profile 用户主页 /u/:username
func (h *UserHandler) Profile(c *gin.Context) {
	viewerID := uint(0)
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		viewerID = user.(*models.User).ID
	}

	profile, err := h.feed.Profile(c.Param("username"), viewerID, pageParam(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "用户不存在")
			return
		}
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title":       profile.Author.Username + " 的主页",
		"Author":      profile.Author,
		"Posts":       profile.Posts,
		"PostCount":   profile.PostCount,
		"IsFollowing": profile.IsFollowing,
		"IsSelf":      viewerID == profile.Author.ID,
		"CurrentPage": profile.Number,
		"TotalPages":  profile.TotalPages,
		"HasNext":     profile.HasNext,
		"HasPrevious": profile.HasPrevious,
	})
}

// Follow 关注作者 /u/:username/follow
func (h *UserHandler) Follow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	author, err := h.store.GetUserByUsername(username)
	if err != nil {
		RenderError(c, http.StatusNotFound, "用户不存在")
		return
	}

	if err := h.follows.Follow(user.ID, author.ID); err != nil {
		switch {
		case errors.Is(err, store.ErrSelfFollow):
			RenderError(c, http.StatusBadRequest, "不能关注自己")
			return
		case errors.Is(err, store.ErrDuplicateFollow):
			// 已关注,直接回到主页
		default:
			RenderError(c, http.StatusInternalServerError, "关注失败")
			return
		}
	}

	c.Redirect(http.StatusFound, "/u/"+username)
}

// Unfollow 取消关注 /u/:username/unfollow
func (h *UserHandler) Unfollow(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	username := c.Param("username")

	author, err := h.store.GetUserByUsername(username)
	if err != nil {
		RenderError(c, http.StatusNotFound, "用户不存在")
		return
	}

	if err := h.follows.Unfollow(user.ID, author.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "操作失败")
		return
	}

	c.Redirect(http.StatusFound, "/u/"+username)
}
