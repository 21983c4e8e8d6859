package handlers

import (
	"net/http"

	"molin/internal/store"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	store *store.Store
}

func NewGroupHandler(s *store.Store) *GroupHandler {
	return &GroupHandler{store: s}
}

// ListGroups 展示所有分组列表
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroups()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	Render(c, http.StatusOK, "group/list.html", gin.H{
		"Groups": groups,
		"Title":  "分组",
		"Active": "groups",
	})
}
