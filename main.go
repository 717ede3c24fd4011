package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/sql-ball/sqlball-engine/pkg/cache"
	"github.com/sql-ball/sqlball-engine/pkg/config"
	"github.com/sql-ball/sqlball-engine/pkg/database"
	"github.com/sql-ball/sqlball-engine/pkg/football"
	"github.com/sql-ball/sqlball-engine/pkg/handlers"
	"github.com/sql-ball/sqlball-engine/pkg/llm"
	"github.com/sql-ball/sqlball-engine/pkg/logging"
	"github.com/sql-ball/sqlball-engine/pkg/middleware"
	"github.com/sql-ball/sqlball-engine/pkg/schema"
	"github.com/sql-ball/sqlball-engine/pkg/services"
	sqlrepair "github.com/sql-ball/sqlball-engine/pkg/sql"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Log startup configuration
	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", cfg.Env)
	log.Printf("  Database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	log.Printf("  Redis: %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	log.Printf("  Generator: %s (%s)", cfg.OpenAI.BaseURL, cfg.OpenAI.Model)

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	executor := database.NewExecutor(db, cfg.Query.MaxRows, cfg.Query.ExecTimeout(), logger)

	// Redis is optional. Without it the dashboard cache lives in memory.
	store := cache.NewMemoryStore()
	if redisClient, err := database.NewRedisClient(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
	} else if redisClient != nil {
		store = cache.NewRedisStore(redisClient, logger)
		defer func() { _ = redisClient.Close() }()
	}

	llmClient, err := llm.NewClient(&llm.Config{
		Endpoint:       cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		APIKey:         cfg.OpenAI.FallbackAPIKey,
		Timeout:        cfg.OpenAI.Timeout(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	docs, err := schema.LoadCorpus()
	if err != nil {
		logger.Fatal("Failed to load schema corpus", zap.Error(err))
	}
	retriever := schema.NewRetriever(docs, llmClient, logger)
	retriever.Initialize(ctx)

	mapper := football.NewTermMapper()
	pipeline := sqlrepair.NewPipeline(logger)

	queryService := services.NewQueryService(mapper, retriever, llmClient, executor, pipeline, cfg.Query, logger)
	optimizeService := services.NewOptimizeService(mapper, llmClient, logger)
	dashboardService := services.NewDashboardService(executor, store, cfg.Cache.TTL(), logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(queryService, logger).RegisterRoutes(mux)
	handlers.NewExecuteHandler(executor, pipeline, logger).RegisterRoutes(mux)
	handlers.NewOptimizeHandler(optimizeService, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	log.Printf("Starting sqlball-engine on %s (version: %s)", addr, cfg.Version)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
