package router

import (
	"molin/internal/handlers"
	"molin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	adminHandler *handlers.AdminHandler,
) {
	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                // 首页 - 全站信息流(缓存)
	r.GET("/p/:id", postHandler.Detail)          // 文章详情页
	r.GET("/g/:slug", postHandler.ListByGroup)   // 分组下的文章列表
	r.GET("/groups", groupHandler.ListGroups)    // 所有分组列表
	r.GET("/u/:username", userHandler.Profile)   // 用户主页

	r.GET("/signup", authHandler.ShowRegister) // 注册页面
	r.POST("/signup", authHandler.Register)    // 提交注册
	r.GET("/login", authHandler.ShowLogin)     // 登录页面
	r.POST("/login", authHandler.Login)        // 提交登录
	r.GET("/logout", authHandler.Logout)       // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/follow", postHandler.FollowIndex)              // 关注信息流
		authorized.GET("/submit", postHandler.ShowCreate)               // 发布文章页面
		authorized.POST("/submit", postHandler.Create)                  // 提交发布文章
		authorized.GET("/p/:id/edit", postHandler.ShowEdit)             // 编辑文章页面
		authorized.POST("/p/:id/edit", postHandler.Update)              // 提交文章更新
		authorized.POST("/p/:id/delete", postHandler.Delete)            // 删除文章
		authorized.POST("/p/:id/comment", postHandler.CreateComment)    // 发表评论
		authorized.POST("/u/:username/follow", userHandler.Follow)      // 关注作者
		authorized.POST("/u/:username/unfollow", userHandler.Unfollow)  // 取消关注
	}

	// 管理端路由 (Admin Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/groups", adminHandler.ShowGroups)              // 分组管理页
		admin.POST("/groups", adminHandler.CreateGroup)            // 新建分组
		admin.POST("/groups/:id", adminHandler.UpdateGroup)        // 编辑分组
		admin.POST("/groups/:id/delete", adminHandler.DeleteGroup) // 删除分组(文章保留)
		admin.POST("/users/:id/delete", adminHandler.DeleteUser)   // 删除用户(级联)
		admin.POST("/cache/clear", adminHandler.ClearCache)        // 清空首页缓存
	}
}
