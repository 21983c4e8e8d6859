package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"molin/internal/cache"
	"molin/internal/middleware"
	"molin/internal/models"
	"molin/internal/services"
	"molin/internal/store"
	"molin/internal/utils"

	"github.com/gin-gonic/gin"
)

// 首页缓存 key,按页码区分;内容与访问者无关
const indexCacheKey = "feed:index:page:%d"

type PostHandler struct {
	store    *store.Store
	feed     *services.FeedService
	comments *services.CommentService
	images   *services.ImageService
	cache    *cache.FeedCache
}

func NewPostHandler(s *store.Store, feed *services.FeedService, comments *services.CommentService, images *services.ImageService, feedCache *cache.FeedCache) *PostHandler {
	return &PostHandler{
		store:    s,
		feed:     feed,
		comments: comments,
		images:   images,
		cache:    feedCache,
	}
}

func pageParam(c *gin.Context) int {
	return utils.StringToInt(c.DefaultQuery("page", "1"))
}

// pageData 信息流页面的公共渲染数据
func (h *PostHandler) pageData(page services.Page, groups []models.Group) gin.H {
	return gin.H{
		"Posts":       page.Posts,
		"Groups":      groups,
		"CurrentPage": page.Number,
		"TotalPages":  page.TotalPages,
		"Total":       page.Total,
		"HasNext":     page.HasNext,
		"HasPrevious": page.HasPrevious,
	}
}

// Index 首页 - 全站信息流,整页数据走共享缓存,TTL 内不感知新文章
func (h *PostHandler) Index(c *gin.Context) {
	page := pageParam(c)

	data, err := h.cache.GetOrCompute(fmt.Sprintf(indexCacheKey, page), func() (interface{}, error) {
		feedPage, err := h.feed.Global(page)
		if err != nil {
			return nil, err
		}
		groups, err := h.store.ListGroups()
		if err != nil {
			return nil, err
		}
		renderData := h.pageData(feedPage, groups)
		renderData["Title"] = "最新发布"
		renderData["Active"] = "index"
		return renderData, nil
	})
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "story/list.html", data.(gin.H))
}

// ListByGroup 分组下的文章列表 /g/:slug
func (h *PostHandler) ListByGroup(c *gin.Context) {
	group, feedPage, err := h.feed.Group(c.Param("slug"), pageParam(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "分组不存在")
			return
		}
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	data := h.pageData(feedPage, groups)
	data["Title"] = group.Title
	data["Group"] = group
	data["Active"] = "group"
	Render(c, http.StatusOK, "story/list.html", data)
}

// FollowIndex 关注信息流,只展示当前用户关注作者的文章
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	feedPage, err := h.feed.Following(user.ID, pageParam(c))
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	data := h.pageData(feedPage, groups)
	data["Title"] = "我的关注"
	data["Active"] = "follow"
	Render(c, http.StatusOK, "story/list.html", data)
}

// Detail 文章详情页 /p/:id
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.store.GetPostByID(utils.StringToUint(c.Param("id")))
	if err != nil {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	comments, err := h.store.ListCommentsForPost(post.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "story/detail.html", gin.H{
		"Title":       post.Title,
		"Post":        post,
		"PostContent": utils.RenderMarkdown(post.Text),
		"Comments":    comments,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "story/create.html", gin.H{
		"Title":  "发布文章",
		"Groups": groups,
	})
}

// postForm 读取发布/编辑表单的公共字段
func (h *PostHandler) postForm(c *gin.Context) (title, text string, groupID *uint) {
	title = c.PostForm("title")
	text = c.PostForm("text")
	if idStr := c.PostForm("group_id"); idStr != "" {
		if id := utils.StringToUint(idStr); id != 0 {
			groupID = &id
		}
	}
	return
}

// saveImage 保存可选的附图,没有上传时返回空字符串
func (h *PostHandler) saveImage(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		// 没有选择图片,不是错误
		return "", nil
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.images.SaveUpload(file, header)
}

func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	title, text, groupID := h.postForm(c)

	image, err := h.saveImage(c)
	if err != nil {
		h.renderCreateError(c, "图片上传失败")
		return
	}

	post := models.Post{
		UserID:  user.ID,
		GroupID: groupID,
		Title:   title,
		Text:    text,
		Image:   image,
	}
	if err := h.store.CreatePost(&post); err != nil {
		if errors.Is(err, store.ErrValidation) {
			h.renderCreateError(c, "标题和正文不能为空,且不能超过长度限制")
			return
		}
		h.renderCreateError(c, "发布失败")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", post.ID))
}

func (h *PostHandler) renderCreateError(c *gin.Context, msg string) {
	groups, _ := h.store.ListGroups()
	Render(c, http.StatusBadRequest, "story/create.html", gin.H{
		"Title":  "发布文章",
		"Error":  msg,
		"Groups": groups,
	})
}

// ownedPost 取文章并校验操作者是否为作者
func (h *PostHandler) ownedPost(c *gin.Context, actorID uint) (*models.Post, error) {
	post, err := h.store.GetPostByID(utils.StringToUint(c.Param("id")))
	if err != nil {
		return nil, err
	}
	if !post.IsOwner(actorID) {
		return nil, store.ErrForbidden
	}
	return post, nil
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := h.ownedPost(c, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrForbidden) {
			RenderError(c, http.StatusForbidden, "无权编辑此文章")
			return
		}
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "story/edit.html", gin.H{
		"Title":  "编辑文章",
		"Post":   post,
		"Groups": groups,
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := h.ownedPost(c, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrForbidden) {
			RenderError(c, http.StatusForbidden, "无权编辑此文章")
			return
		}
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	title, text, groupID := h.postForm(c)

	image, err := h.saveImage(c)
	if err != nil {
		RenderError(c, http.StatusBadRequest, "图片上传失败")
		return
	}
	if image == "" {
		image = post.Image // 未重新上传时保留原图
	}

	if err := h.store.UpdatePost(post.ID, title, text, groupID, image); err != nil {
		if errors.Is(err, store.ErrValidation) {
			groups, _ := h.store.ListGroups()
			Render(c, http.StatusBadRequest, "story/edit.html", gin.H{
				"Title":  "编辑文章",
				"Error":  "标题和正文不能为空,且不能超过长度限制",
				"Post":   post,
				"Groups": groups,
			})
			return
		}
		RenderError(c, http.StatusInternalServerError, "保存失败")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", post.ID))
}

// Delete 作者删除自己的文章,评论随之级联删除。
// 首页缓存不主动失效,等 TTL 自然过期。
func (h *PostHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	post, err := h.ownedPost(c, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrForbidden) {
			RenderError(c, http.StatusForbidden, "无权删除此文章")
			return
		}
		RenderError(c, http.StatusNotFound, "文章不存在")
		return
	}

	if err := h.store.DeletePost(post.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "删除失败")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// CreateComment 发表评论 /p/:id/comment
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	postID := utils.StringToUint(c.Param("id"))

	_, err := h.comments.Add(postID, user.ID, c.PostForm("text"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			RenderError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, store.ErrValidation):
			RenderError(c, http.StatusBadRequest, "评论不能为空,且不能超过100字")
		default:
			RenderError(c, http.StatusInternalServerError, "评论失败")
		}
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/p/%d", postID))
}
