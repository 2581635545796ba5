package api

import (
	"AgentArena/internal/config"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, cfg *config.AppConfig) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()

	// 系统接口
	r.GET("/health", h.HealthCheck)
	r.GET("/config", h.GetConfig)

	// 对话接口：认证可选，前端未登录也可以试用
	chat := r.Group("/")
	chat.Use(OptionalAuthMiddleware(cfg.Auth.JwtSecret))
	if cfg.Middleware.RateLimiter.Enabled {
		chat.Use(RateLimitMiddleware(cfg.Middleware.RateLimiter))
	}
	{
		chat.POST("/chat", h.HandleChat)
	}

	// 用户认证路由组
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// 会话历史路由组，需要登录
	conversations := r.Group("/conversations")
	conversations.Use(AuthMiddleware(cfg.Auth.JwtSecret))
	{
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id/messages", h.GetConversationMessages)
	}

	return r
}
