package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"AgentArena/internal/agent"
	"AgentArena/internal/models"
	"AgentArena/pkg/logger"

	"github.com/golang-jwt/jwt"
)

// --- 测试桩 ---

type echoAdapter struct{}

func (echoAdapter) Framework() string   { return "F1" }
func (echoAdapter) Name() string        { return "echo" }
func (echoAdapter) DisplayName() string { return "Echo" }
func (echoAdapter) Description() string { return "回声测试 Agent" }
func (echoAdapter) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	return "echo: " + message, nil
}

type slowAdapter struct{}

func (slowAdapter) Framework() string   { return "F1" }
func (slowAdapter) Name() string        { return "slow" }
func (slowAdapter) DisplayName() string { return "Slow" }
func (slowAdapter) Description() string { return "等待超时的测试 Agent" }
func (slowAdapter) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type memConvStore struct {
	records map[string]*models.ConversationRecord
}

func newMemConvStore() *memConvStore {
	return &memConvStore{records: make(map[string]*models.ConversationRecord)}
}

func (s *memConvStore) AppendMessages(ctx context.Context, record *models.ConversationRecord, messages []models.ChatMessage) error {
	existing, ok := s.records[record.ID]
	if !ok {
		existing = &models.ConversationRecord{
			ID:     record.ID,
			UserID: record.UserID,
		}
		s.records[record.ID] = existing
	}
	existing.AgentName = record.AgentName
	existing.Model = record.Model
	existing.Messages = append(existing.Messages, messages...)
	return nil
}

func (s *memConvStore) GetByID(ctx context.Context, id string) (*models.ConversationRecord, error) {
	return s.records[id], nil
}

func (s *memConvStore) GetByUserID(ctx context.Context, userID string, page, limit int) ([]*models.ConversationRecord, error) {
	var out []*models.ConversationRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memUserStore struct {
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (s *memUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.users[user.Username] = user
	return nil
}

func (s *memUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users[username], nil
}

func (s *memUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type memPublisher struct {
	events []*models.ChatEvent
}

func (p *memPublisher) Publish(ctx context.Context, event *models.ChatEvent) error {
	p.events = append(p.events, event)
	return nil
}

func testRegistry(t *testing.T) *agent.Registry {
	t.Helper()
	r, err := agent.NewRegistry([]agent.Factory{
		func() (agent.Adapter, error) { return echoAdapter{}, nil },
		func() (agent.Adapter, error) { return slowAdapter{}, nil },
	}, logger.New("service_test", "", ""))
	if err != nil {
		t.Fatalf("构建测试 Registry 失败: %v", err)
	}
	return r
}

// --- Chat ---

func TestChatGeneratesConversationID(t *testing.T) {
	s := NewService(Options{
		Registry: testRegistry(t),
		Logger:   logger.New("service_test", "", ""),
	})

	result, err := s.Chat(context.Background(), "u1", "echo", "m1", "hello", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Response != "echo: hello" {
		t.Errorf("Response = %q", result.Response)
	}
	if result.ConversationID == "" {
		t.Error("未指定会话 ID 时应当自动生成")
	}
}

func TestChatPersistsAndPublishes(t *testing.T) {
	convStore := newMemConvStore()
	pub := &memPublisher{}
	s := NewService(Options{
		Registry:  testRegistry(t),
		ConvStore: convStore,
		Publisher: pub,
		Logger:    logger.New("service_test", "", ""),
	})

	result, err := s.Chat(context.Background(), "u1", "echo", "m1", "hello", "conv-1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, 期望 conv-1", result.ConversationID)
	}

	record := convStore.records["conv-1"]
	if record == nil {
		t.Fatal("对话应当写入存储")
	}
	if len(record.Messages) != 2 {
		t.Fatalf("消息数量 = %d, 期望 2", len(record.Messages))
	}
	if record.Messages[0].Role != models.SpeakerUser || record.Messages[0].Content != "hello" {
		t.Errorf("用户消息记录错误: %+v", record.Messages[0])
	}
	if record.Messages[1].Role != models.SpeakerAssistant || record.Messages[1].Content != "echo: hello" {
		t.Errorf("回答消息记录错误: %+v", record.Messages[1])
	}

	if len(pub.events) != 1 {
		t.Fatalf("事件数量 = %d, 期望 1", len(pub.events))
	}
	event := pub.events[0]
	if event.Status != models.ChatEventSuccess || event.AgentName != "echo" || event.UserID != "u1" {
		t.Errorf("事件内容错误: %+v", event)
	}
}

func TestChatUnknownAgent(t *testing.T) {
	s := NewService(Options{
		Registry: testRegistry(t),
		Logger:   logger.New("service_test", "", ""),
	})

	_, err := s.Chat(context.Background(), "u1", "nope", "m1", "hello", "")
	var notFound *agent.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("期望 *agent.NotFoundError, 实际 %v", err)
	}
}

func TestChatTimeoutClassifiedAndPublished(t *testing.T) {
	pub := &memPublisher{}
	s := NewService(Options{
		Registry:      testRegistry(t),
		Publisher:     pub,
		InvokeTimeout: 10 * time.Millisecond,
		Logger:        logger.New("service_test", "", ""),
	})

	_, err := s.Chat(context.Background(), "u1", "slow", "m1", "hello", "")
	var adapterErr *agent.AdapterError
	if !errors.As(err, &adapterErr) {
		t.Fatalf("期望 *agent.AdapterError, 实际 %v", err)
	}
	if adapterErr.Kind != agent.KindTimeout {
		t.Errorf("Kind = %q, 期望 %q", adapterErr.Kind, agent.KindTimeout)
	}

	if len(pub.events) != 1 || pub.events[0].Status != models.ChatEventFailed {
		t.Fatalf("失败调用也应当发布事件: %+v", pub.events)
	}
}

// --- History ---

func TestHistoryFallsBackToStore(t *testing.T) {
	convStore := newMemConvStore()
	convStore.records["conv-1"] = &models.ConversationRecord{
		ID:     "conv-1",
		UserID: "u1",
		Messages: []models.ChatMessage{
			{Role: models.SpeakerUser, Content: "hi"},
		},
	}
	s := NewService(Options{
		Registry:  testRegistry(t),
		ConvStore: convStore,
		Logger:    logger.New("service_test", "", ""),
	})

	messages, err := s.History(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(messages) != 1 || messages[0].Content != "hi" {
		t.Errorf("历史消息错误: %+v", messages)
	}

	messages, err = s.History(context.Background(), "no-such")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if messages != nil {
		t.Errorf("不存在的会话应当返回空历史: %+v", messages)
	}
}

// --- 注册与登录 ---

func TestRegisterUserValidation(t *testing.T) {
	s := NewService(Options{
		Registry:  testRegistry(t),
		UserStore: newMemUserStore(),
		JwtSecret: "test-secret",
		Logger:    logger.New("service_test", "", ""),
	})
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"bad-email", "not-an-email", "abc123"},
		{"too-short", "a@b.com", "a1"},
		{"no-digit", "a@b.com", "abcdef"},
		{"no-letter", "a@b.com", "123456"},
	}
	for _, tc := range cases {
		if _, err := s.RegisterUser(ctx, tc.name, tc.email, tc.password); err == nil {
			t.Errorf("%s: 非法注册请求应当被拒绝", tc.name)
		}
	}

	user, err := s.RegisterUser(ctx, "alice", "alice@example.com", "abc123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if user.ID == "" || user.Status != models.StatusActive {
		t.Errorf("用户字段错误: %+v", user)
	}
	if user.Password == "abc123" {
		t.Error("密码应当以哈希形式存储")
	}

	if _, err = s.RegisterUser(ctx, "alice", "alice2@example.com", "abc123"); err == nil {
		t.Error("重复用户名应当被拒绝")
	}
}

func TestLoginUserIssuesJWT(t *testing.T) {
	s := NewService(Options{
		Registry:  testRegistry(t),
		UserStore: newMemUserStore(),
		JwtSecret: "test-secret",
		Logger:    logger.New("service_test", "", ""),
	})
	ctx := context.Background()

	user, err := s.RegisterUser(ctx, "bob", "bob@example.com", "abc123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	tokenString, err := s.LoginUser(ctx, "bob", "abc123")
	if err != nil {
		t.Fatalf("LoginUser() error = %v", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("JWT 校验失败: %v", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["sub"] != user.ID {
		t.Errorf("JWT claims 错误: %+v", token.Claims)
	}

	if _, err = s.LoginUser(ctx, "bob", "wrongpass1"); err == nil {
		t.Error("错误密码应当登录失败")
	}
	if _, err = s.LoginUser(ctx, "nobody", "abc123"); err == nil {
		t.Error("不存在的用户应当登录失败")
	}
}
