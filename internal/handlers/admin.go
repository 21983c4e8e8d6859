package handlers

import (
	"errors"
	"net/http"

	"molin/internal/cache"
	"molin/internal/models"
	"molin/internal/store"
	"molin/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理端操作:分组管理、删除用户、清空缓存。
// 路由统一挂 AdminRequired,这里不再重复鉴权。
type AdminHandler struct {
	store *store.Store
	cache *cache.FeedCache
}

func NewAdminHandler(s *store.Store, feedCache *cache.FeedCache) *AdminHandler {
	return &AdminHandler{store: s, cache: feedCache}
}

// ShowGroups 分组管理页
func (h *AdminHandler) ShowGroups(c *gin.Context) {
	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "admin/groups.html", gin.H{
		"Title":  "分组管理",
		"Groups": groups,
	})
}

// CreateGroup 新建分组
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	group := models.Group{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Description: c.PostForm("description"),
	}
	if err := h.store.CreateGroup(&group); err != nil {
		switch {
		case errors.Is(err, store.ErrValidation):
			RenderError(c, http.StatusBadRequest, "分组名称和 slug 不能为空")
		case errors.Is(err, store.ErrIntegrity):
			RenderError(c, http.StatusConflict, "slug 已存在")
		default:
			RenderError(c, http.StatusInternalServerError, "创建失败")
		}
		return
	}

	c.Redirect(http.StatusFound, "/admin/groups")
}

// UpdateGroup 编辑分组
func (h *AdminHandler) UpdateGroup(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	err := h.store.UpdateGroup(id, c.PostForm("title"), c.PostForm("slug"), c.PostForm("description"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			RenderError(c, http.StatusNotFound, "分组不存在")
		case errors.Is(err, store.ErrValidation):
			RenderError(c, http.StatusBadRequest, "分组名称和 slug 不能为空")
		case errors.Is(err, store.ErrIntegrity):
			RenderError(c, http.StatusConflict, "slug 已存在")
		default:
			RenderError(c, http.StatusInternalServerError, "保存失败")
		}
		return
	}

	c.Redirect(http.StatusFound, "/admin/groups")
}

// DeleteGroup 删除分组,组内文章保留,group_id 置空
func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	if err := h.store.DeleteGroup(utils.StringToUint(c.Param("id"))); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "分组不存在")
			return
		}
		RenderError(c, http.StatusInternalServerError, "删除失败")
		return
	}

	c.Redirect(http.StatusFound, "/admin/groups")
}

// DeleteUser 删除用户,文章、评论、关注关系级联删除
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.store.DeleteUser(utils.StringToUint(c.Param("id"))); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "用户不存在")
			return
		}
		RenderError(c, http.StatusInternalServerError, "删除失败")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// ClearCache 清空首页缓存,删帖/发帖后需要立即可见时使用
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	c.Redirect(http.StatusFound, "/")
}
