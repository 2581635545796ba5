package main

import (
	"context"
	"flag"
	"log"
	"time"

	"AgentArena/internal/agent"
	"AgentArena/internal/agent/adapters"
	"AgentArena/internal/config"
	mongodb "AgentArena/internal/database/mongo"
	redisdb "AgentArena/internal/database/redis"
	"AgentArena/internal/platform_service/api"
	"AgentArena/internal/platform_service/publisher"
	"AgentArena/internal/platform_service/service"
	"AgentArena/internal/platform_service/store"
	"AgentArena/pkg/logger"
	"AgentArena/pkg/mcp_host"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("platform_service", "", "")
	appLogger.Info("Logger initialized")

	// Connect configured MCP tool servers (partial failure tolerated)
	host := mcp_host.NewHost()
	host.ConnectAll(context.Background(), cfg.MCP.Servers, appLogger)
	defer host.CloseAll()

	// Inject adapter configuration, then build the agent registry.
	// 重复的 (framework, name) 视为部署错误，直接快速失败。
	adapters.Setup(cfg, host)
	registry, err := agent.BuildRegistry(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build agent registry: " + err.Error())
	}
	if registry.Count() == 0 {
		appLogger.Warn("No agent registered, check LLM credentials in config")
	}

	// Optional external stores: the dispatch core runs without them.
	var convStore store.ConversationStore
	var userStore store.UserStore
	var cache *store.HistoryCache

	if cfg.Databases.MongoDB.Address != "" {
		client, err := mongodb.GetClient(&cfg.Databases.MongoDB)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		db := client.Database(cfg.Databases.MongoDB.Database)
		convStore = store.NewMongoConversationStore(db, "conversations")
		userStore, err = store.NewMongoUserStore(context.Background(), db, "users")
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		appLogger.Info("MongoDB stores initialized")
	}

	if cfg.Databases.Redis.Address != "" {
		client, err := redisdb.GetClient(&cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		cache = store.NewHistoryCache(client, cfg.Chat.HistoryWindow)
		appLogger.Info("History cache initialized")
	}

	var chatPublisher service.ChatPublisher
	if cfg.Databases.Kafka.Enabled {
		p := publisher.NewChatEventPublisher(cfg.Databases.Kafka)
		defer p.Close()
		chatPublisher = p
		appLogger.Info("Chat event publisher initialized")
	}

	invokeTimeout := 300 * time.Second
	if cfg.Chat.InvokeTimeout != "" {
		d, err := time.ParseDuration(cfg.Chat.InvokeTimeout)
		if err != nil {
			appLogger.Fatal("invalid chat.invokeTimeout: " + err.Error())
		}
		invokeTimeout = d
	}

	// Initialize dependencies (Store -> Service -> Handler)
	svc := service.NewService(service.Options{
		Registry:      registry,
		ConvStore:     convStore,
		Cache:         cache,
		UserStore:     userStore,
		Publisher:     chatPublisher,
		JwtSecret:     cfg.Auth.JwtSecret,
		TokenTTL:      time.Duration(cfg.Auth.TokenTTL) * time.Second,
		InvokeTimeout: invokeTimeout,
		ModelCatalog:  cfg.Models,
		Logger:        appLogger,
	})
	apiHandler := api.NewHandler(svc)
	appLogger.Info("Dependencies injected")

	// Setup and start Gin router
	router := api.SetupRouter(apiHandler, cfg)
	appLogger.Info("Router setup completed")

	serverAddress := cfg.Server.Address
	if serverAddress == "" {
		serverAddress = ":8000"
	}
	appLogger.Info("Starting server on " + serverAddress)

	if err := router.Run(serverAddress); err != nil {
		appLogger.Fatal(err.Error())
	}
}
