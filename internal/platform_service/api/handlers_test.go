package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"AgentArena/internal/agent"
	"AgentArena/internal/config"
	"AgentArena/internal/platform_service/service"
	"AgentArena/pkg/logger"

	"github.com/gin-gonic/gin"
)

// echoAdapter 直接回显用户输入，用于端到端验证调度链路。
type echoAdapter struct{}

func (echoAdapter) Framework() string { return "F1" }
func (echoAdapter) Name() string { return "echo" }
func (echoAdapter) DisplayName() string { return "Echo" }
func (echoAdapter) Description() string { return "echoes the prompt" }

func (echoAdapter) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	return "echo: " + message, nil
}

// faultyAdapter 总是返回指定类别的 AdapterError。
type faultyAdapter struct {
	kind agent.AdapterErrorKind
}

func (faultyAdapter) Framework() string { return "F1" }
func (a faultyAdapter) Name() string { return "faulty_" + string(a.kind) }
func (faultyAdapter) DisplayName() string { return "Faulty" }
func (faultyAdapter) Description() string { return "always fails" }

func (a faultyAdapter) Invoke(ctx context.Context, message, model, conversationID string) (string, error) {
	return "", agent.NewAdapterError(a.kind, errors.New("synthetic failure"))
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := agent.NewRegistry([]agent.Factory{
		func() (agent.Adapter, error) { return echoAdapter{}, nil },
		func() (agent.Adapter, error) { return faultyAdapter{kind: agent.KindTimeout}, nil },
		func() (agent.Adapter, error) { return faultyAdapter{kind: agent.KindInvalidModel}, nil },
	}, logger.New("api_test", "", ""))
	if err != nil {
		t.Fatalf("failed to build test registry: %v", err)
	}

	svc := service.NewService(service.Options{
		Registry:     registry,
		JwtSecret:    "test-secret",
		ModelCatalog: []string{"gpt-4o", "gemini-1.5-pro"},
		Logger:       logger.New("api_test", "", ""),
	})

	cfg := &config.AppConfig{}
	cfg.Auth.JwtSecret = "test-secret"
	return SetupRouter(NewHandler(svc), cfg)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf(`status field = %q, want "ok"`, resp["status"])
	}
}

func TestConfigEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Frameworks []struct {
			Name   string `json:"name"`
			Agents []struct {
				Name string `json:"name"`
			} `json:"agents"`
		} `json:"frameworks"`
		Models []string `json:"models"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(resp.Frameworks) != 1 || resp.Frameworks[0].Name != "F1" {
		t.Fatalf("unexpected frameworks: %+v", resp.Frameworks)
	}
	if len(resp.Frameworks[0].Agents) != 3 {
		t.Errorf("expected 3 agents under F1, got %d", len(resp.Frameworks[0].Agents))
	}
	if len(resp.Models) != 2 {
		t.Errorf("expected 2 models in catalog, got %v", resp.Models)
	}
}

func TestChatEcho(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/chat", map[string]string{
		"agent_name":  "echo",
		"user_prompt": "hi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.Response != "echo: hi" {
		t.Errorf(`response = %q, want "echo: hi"`, resp.Response)
	}
	if resp.ConversationID == "" {
		t.Error("expected a generated conversation_id")
	}
}

func TestChatUnknownAgent(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/chat", map[string]string{
		"agent_name":  "nope",
		"user_prompt": "hi",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["detail"] == "" {
		t.Error("expected a non-empty detail message")
	}
}

func TestChatAdapterFailureKinds(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		agentName string
		wantCode  int
	}{
		{"faulty_timeout", http.StatusGatewayTimeout},
		{"faulty_invalid-model", http.StatusBadRequest},
	}

	for _, tc := range cases {
		w := doJSON(router, http.MethodPost, "/chat", map[string]string{
			"agent_name":  tc.agentName,
			"user_prompt": "hi",
		})
		if w.Code != tc.wantCode {
			t.Errorf("%s: status = %d, want %d", tc.agentName, w.Code, tc.wantCode)
		}

		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid JSON response: %v", tc.agentName, err)
		}
		if resp["detail"] == "" {
			t.Errorf("%s: expected a non-empty detail message", tc.agentName)
		}
	}
}

func TestChatRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/chat", map[string]string{
		"agent_name": "echo",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestConversationsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/conversations", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
