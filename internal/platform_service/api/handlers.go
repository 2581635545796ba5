package api

import (
	"errors"
	"net/http"
	"strconv"

	"AgentArena/internal/agent"
	"AgentArena/internal/platform_service/service"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// --- System & Config Handlers ---

// HealthCheck 检查后端服务是否正在运行，不检查任何依赖。
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetConfig 返回所有可用框架/Agent 的结构化配置和模型目录。
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Config())
}

// --- Chat Handlers ---

// ChatRequest 定义了对话请求的 JSON 结构。
type ChatRequest struct {
	AgentName      string `json:"agent_name" binding:"required"`
	Model          string `json:"model"`
	UserPrompt     string `json:"user_prompt" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse 定义了对话响应的 JSON 结构。
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// HandleChat 将对话请求分发给指定的 Agent。
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// 认证可选：带了有效 token 时记录用户归属
	userID := c.GetString("userID")

	result, err := h.service.Chat(c.Request.Context(), userID, req.AgentName, req.Model, req.UserPrompt, req.ConversationID)
	if err != nil {
		status, detail := mapChatError(err)
		c.JSON(status, gin.H{"detail": detail})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
	})
}

// mapChatError 将调度错误映射为 HTTP 状态码和 detail 信息。
// 失败类别保留在 detail 中，调用方可以区分超时、上游错误和无效模型。
func mapChatError(err error) (int, string) {
	var notFound *agent.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, notFound.Error()
	}

	var adapterErr *agent.AdapterError
	if errors.As(err, &adapterErr) {
		switch adapterErr.Kind {
		case agent.KindTimeout:
			return http.StatusGatewayTimeout, adapterErr.Error()
		case agent.KindInvalidModel:
			return http.StatusBadRequest, adapterErr.Error()
		default:
			return http.StatusBadGateway, adapterErr.Error()
		}
	}

	return http.StatusInternalServerError, err.Error()
}

// --- Conversation Handlers ---

// GetConversationMessages 返回一个会话最近的消息。
func (h *Handler) GetConversationMessages(c *gin.Context) {
	conversationID := c.Param("id")

	messages, err := h.service.History(c.Request.Context(), conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation_id": conversationID, "messages": messages})
}

// ListConversations 返回当前用户的会话列表。
func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.GetString("userID")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.service.Conversations(c.Request.Context(), userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": records})
}

// --- Registration and Login Handlers ---

// RegisterRequest 定义了用户注册请求的 JSON 结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 处理用户注册请求。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "注册成功", "user_id": user.ID})
}

// LoginRequest 定义了用户登录请求的 JSON 结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
