package handlers

import (
	"molin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'.
// obj 可能来自共享缓存,先复制一份再注入请求级数据,
// 保证缓存里的内容始终与访问者无关。
func Render(c *gin.Context, code int, name string, obj gin.H) {
	data := gin.H{}
	for k, v := range obj {
		data[k] = v
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		data["CurrentUser"] = user
	}

	data["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, data)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
