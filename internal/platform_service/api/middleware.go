package api

import (
	"errors"
	"net/http"
	"strings"

	"AgentArena/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/time/rate"
)

// parseBearerToken 解析并验证 Authorization 标头中的 JWT，返回用户 ID。
func parseBearerToken(authHeader, jwtSecret string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("授权标头格式不正确")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保 token 的签名方法是我们期望的
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", errors.New("无效的 token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("无效的 token")
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", errors.New("无效的 token claims")
	}
	return userID, nil
}

// AuthMiddleware 创建一个 Gin 中间件，用于强制验证 JWT。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权标头"})
			c.Abort()
			return
		}

		userID, err := parseBearerToken(authHeader, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// 将用户 ID 存储在 Gin 的上下文中，以便后续的处理函数可以使用
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware 与 AuthMiddleware 类似，但缺失或无效的
// token 不会中断请求，只是不设置用户 ID。/chat 接口保持开放，
// 带 token 时才记录会话归属。
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			if userID, err := parseBearerToken(authHeader, jwtSecret); err == nil {
				c.Set("userID", userID)
			}
		}
		c.Next()
	}
}

// RateLimitMiddleware 基于令牌桶对接口限流。
func RateLimitMiddleware(cfg config.RateLimiterConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}
