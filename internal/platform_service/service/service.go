package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"AgentArena/internal/agent"
	"AgentArena/internal/models"
	"AgentArena/internal/platform_service/store"
	"AgentArena/pkg/logger"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ChatPublisher 是对话审计事件的发布接口。
type ChatPublisher interface {
	Publish(ctx context.Context, event *models.ChatEvent) error
}

// Service 封装了平台的业务逻辑：对话调度、历史查询和用户认证。
// convStore、cache、publisher 均可为 nil，对应的外围能力会被跳过，
// 核心的调度路径不依赖任何外部存储。
type Service struct {
	registry      *agent.Registry
	convStore     store.ConversationStore
	cache         *store.HistoryCache
	userStore     store.UserStore
	publisher     ChatPublisher
	jwtSecret     []byte
	tokenTTL      time.Duration
	invokeTimeout time.Duration
	modelCatalog  []string
	log           *logger.Logger
}

// Options 聚合 Service 的全部依赖。
type Options struct {
	Registry      *agent.Registry
	ConvStore     store.ConversationStore
	Cache         *store.HistoryCache
	UserStore     store.UserStore
	Publisher     ChatPublisher
	JwtSecret     string
	TokenTTL      time.Duration
	InvokeTimeout time.Duration
	ModelCatalog  []string
	Logger        *logger.Logger
}

// NewService 创建一个新的 Service 实例。
func NewService(opts Options) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &Service{
		registry:      opts.Registry,
		convStore:     opts.ConvStore,
		cache:         opts.Cache,
		userStore:     opts.UserStore,
		publisher:     opts.Publisher,
		jwtSecret:     []byte(opts.JwtSecret),
		tokenTTL:      opts.TokenTTL,
		invokeTimeout: opts.InvokeTimeout,
		modelCatalog:  opts.ModelCatalog,
		log:           opts.Logger,
	}
}

// --- Config ---

// ConfigView 是 /config 接口返回的结构化配置。
type ConfigView struct {
	Frameworks []agent.FrameworkGroup `json:"frameworks"`
	Models     []string               `json:"models"`
}

// Config 返回所有已发现的框架/Agent 以及外部配置的模型目录。
func (s *Service) Config() ConfigView {
	return ConfigView{
		Frameworks: s.registry.List(),
		Models:     s.modelCatalog,
	}
}

// --- Chat ---

// ChatResult 是一次对话调度的结果。
type ChatResult struct {
	Response       string
	ConversationID string
}

// Chat 将一次对话请求分发给指定的 Agent 并返回其回答。
// 查找失败返回 *agent.NotFoundError；调用失败返回 *agent.AdapterError。
// 历史持久化和事件发布失败只记录日志，不影响本次回答。
func (s *Service) Chat(ctx context.Context, userID, agentName, model, prompt, conversationID string) (*ChatResult, error) {
	a, err := s.registry.Get(agentName)
	if err != nil {
		return nil, err
	}

	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	invokeCtx := ctx
	if s.invokeTimeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, s.invokeTimeout)
		defer cancel()
	}

	start := time.Now()
	response, invokeErr := a.Invoke(invokeCtx, prompt, model, conversationID)
	latency := time.Since(start)

	s.publishEvent(ctx, a, userID, model, conversationID, latency, invokeErr)

	if invokeErr != nil {
		// Adapter 按契约返回 *AdapterError，这里兜底归类一次。
		return nil, agent.WrapInvokeError(invokeErr)
	}

	s.persistExchange(ctx, userID, agentName, model, conversationID, prompt, response)

	return &ChatResult{Response: response, ConversationID: conversationID}, nil
}

// publishEvent 发布一条对话审计事件，失败只记录日志。
func (s *Service) publishEvent(ctx context.Context, a agent.Adapter, userID, model, conversationID string, latency time.Duration, invokeErr error) {
	if s.publisher == nil {
		return
	}

	event := &models.ChatEvent{
		ConversationID: conversationID,
		UserID:         userID,
		Framework:      a.Framework(),
		AgentName:      a.Name(),
		Model:          model,
		Status:         models.ChatEventSuccess,
		LatencyMS:      latency.Milliseconds(),
		Timestamp:      time.Now(),
	}
	if invokeErr != nil {
		event.Status = models.ChatEventFailed
		event.Detail = invokeErr.Error()
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WithError(err).Warn("Failed to publish chat event to Kafka")
	}
}

// persistExchange 将本轮问答写入 Mongo 并刷新 Redis 缓存窗口，失败只记录日志。
func (s *Service) persistExchange(ctx context.Context, userID, agentName, model, conversationID, prompt, response string) {
	now := time.Now()
	exchange := []models.ChatMessage{
		{Role: models.SpeakerUser, Content: prompt, CreatedAt: now},
		{Role: models.SpeakerAssistant, Content: response, CreatedAt: now},
	}

	if s.convStore != nil {
		record := &models.ConversationRecord{
			ID:        conversationID,
			UserID:    userID,
			AgentName: agentName,
			Model:     model,
		}
		if err := s.convStore.AppendMessages(ctx, record, exchange); err != nil {
			s.log.WithError(err).Warn("Failed to persist conversation to MongoDB")
		}
	}

	if s.cache != nil {
		if err := s.cache.Append(ctx, conversationID, exchange); err != nil {
			s.log.WithError(err).Warn("Failed to refresh history cache in Redis")
		}
	}
}

// History 返回一个会话最近的消息。优先读 Redis 缓存窗口，
// 未命中时回源 Mongo。
func (s *Service) History(ctx context.Context, conversationID string) ([]models.ChatMessage, error) {
	if s.cache != nil {
		messages, err := s.cache.Recent(ctx, conversationID)
		if err != nil {
			s.log.WithError(err).Warn("History cache read failed, falling back to MongoDB")
		} else if len(messages) > 0 {
			return messages, nil
		}
	}

	if s.convStore == nil {
		return nil, nil
	}
	record, err := s.convStore.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return record.Messages, nil
}

// Conversations 返回一个用户的会话列表（分页）。
func (s *Service) Conversations(ctx context.Context, userID string, page, limit int) ([]*models.ConversationRecord, error) {
	if s.convStore == nil {
		return nil, nil
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.convStore.GetByUserID(ctx, userID, page, limit)
}

// --- User Registration & Login ---

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// validatePassword 检查密码强度：至少 6 位，同时包含字母和数字。
func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("密码长度至少6位")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return errors.New("密码必须包含字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含数字")
	}
	return nil
}

// RegisterUser 处理新用户注册的逻辑。
func (s *Service) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if s.userStore == nil {
		return nil, errors.New("用户存储不可用")
	}
	if !emailPattern.MatchString(email) {
		return nil, errors.New("邮箱格式不正确")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	// 检查用户是否已存在
	existing, err := s.userStore.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("该用户名已被注册")
	}

	// 哈希密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
	}

	if err := s.userStore.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// LoginUser 处理用户登录的逻辑，成功时返回 JWT。
func (s *Service) LoginUser(ctx context.Context, username, password string) (string, error) {
	if s.userStore == nil {
		return "", errors.New("用户存储不可用")
	}

	user, err := s.userStore.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("用户不存在或密码错误")
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("用户不存在或密码错误")
	}

	return s.generateJWT(user.ID)
}

// generateJWT 为指定用户签发一个 JWT。
func (s *Service) generateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("签发 JWT 失败: %w", err)
	}
	return signed, nil
}
