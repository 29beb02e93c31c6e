package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/stayconcierge/server/internal/core"
	"github.com/stayconcierge/server/internal/planner/aggregate"
	"github.com/stayconcierge/server/internal/planner/engine"
	"github.com/stayconcierge/server/internal/planner/model"
	"github.com/stayconcierge/server/internal/planner/providers"
	"github.com/stayconcierge/server/internal/planner/repo"
	"github.com/stayconcierge/server/internal/planner/rooms"
	"github.com/stayconcierge/server/internal/planner/router"
	"github.com/stayconcierge/server/internal/planner/scheduler"
	logx "github.com/stayconcierge/server/pkg/logger"
	pkgredis "github.com/stayconcierge/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the trip planner,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	Rooms model.RoomStoreConfig

	// LLM providers
	APIKey       string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL      string `envconfig:"GEMINI_BASE_URL"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Planner configs
	RouterModel   model.RouterModelConfig
	AnswerModel   model.AnswerModelConfig
	ComposerModel model.ComposerModelConfig
	Scheduler     model.SchedulerConfig
	Budget        model.BudgetConfig
	Amadeus       model.AmadeusConfig
	GeoIP         model.GeoIPConfig
	Embedding     model.EmbeddingConfig
	Conversation  model.ConversationConfig
}

func main() {
	fmt.Println("Starting trip planner...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	conversationStore := repo.NewRedisConversationStore(rdb, ttl)

	chatModels, err := providers.NewChatModels(ctx, providers.ChatModelConfig{
		APIKey:         envCfg.APIKey,
		BaseURL:        envCfg.BaseURL,
		RouterConfig:   &envCfg.RouterModel,
		AnswerConfig:   &envCfg.AnswerModel,
		ComposerConfig: &envCfg.ComposerModel,
	})
	if err != nil {
		log.Fatalf("Failed to create chat models: %v", err)
	}

	roomStore, err := rooms.OpenStore(envCfg.Rooms.Path)
	if err != nil {
		log.Fatalf("Failed to open room store: %v", err)
	}
	if err := roomStore.Seed(ctx, rooms.SeedRooms()); err != nil {
		log.Fatalf("Failed to seed room store: %v", err)
	}

	var index *rooms.SemanticIndex
	if envCfg.Embedding.Enabled {
		embedder := buildEmbedder(chatModels, envCfg)
		index = rooms.NewSemanticIndex(embedder, envCfg.Embedding)
		all, err := roomStore.All(ctx)
		if err != nil {
			log.Fatalf("Failed to list rooms: %v", err)
		}
		if err := index.Build(ctx, all); err != nil {
			log.Printf("Warning: semantic index build failed, structured search only: %v", err)
			index = nil
		} else {
			fmt.Printf("Semantic index ready (%d rooms)\n", index.Len())
		}
	}

	roomCatalog := rooms.NewCatalog(roomStore, index)
	eng := engine.New(
		router.New(providers.NewCompleter(chatModels.Router)),
		scheduler.New(providers.NewAmadeusClient(envCfg.Amadeus), envCfg.Scheduler),
		aggregate.New(roomCatalog, envCfg.Budget),
		providers.NewCompleter(chatModels.Answer),
		providers.NewCompleter(chatModels.Composer),
		conversationStore,
		providers.NewIPAPILocator(envCfg.GeoIP),
		roomCatalog,
	)

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Greeting",
			query:       "안녕하세요!",
		},
		{
			description: "Flight question",
			query:       "오사카 가는 비행기 얼마나 걸려요?",
		},
		{
			description: "Full trip plan from current location",
			query:       router.AutoPlanTrigger,
		},
	}

	conversationID := ""

	for i, test := range testQueries {
		fmt.Printf("\n🚀 Test %d: %s\n", i+1, test.description)
		fmt.Printf("Query: \"%s\"\n", test.query)
		fmt.Println("Processing...")

		st, err := eng.Run(ctx, engine.Request{
			Query:          test.query,
			ConversationID: conversationID,
		}, os.Stdout)
		if err != nil {
			log.Fatalf("Failed to run turn %d: %v", i+1, err)
		}
		conversationID = st.ConversationID

		fmt.Printf("\n✅ Turn %d done (intent=%s)\n", i+1, st.Intent)
		fmt.Println("─────────────────────────────────────────────")

		// slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}
}

// buildEmbedder prefers Gemini embeddings and fails over to OpenAI when an
// API key for it is configured.
func buildEmbedder(chatModels *providers.ChatModels, envCfg AppConfig) rooms.Embedder {
	primary := rooms.NewGeminiEmbedder(chatModels.Client, envCfg.Embedding.GeminiModel)
	if envCfg.OpenAIAPIKey == "" {
		return primary
	}
	oai := openai.NewClient(option.WithAPIKey(envCfg.OpenAIAPIKey))
	return &rooms.FailoverEmbedder{
		Primary:   primary,
		Secondary: rooms.NewOpenAIEmbedder(&oai, envCfg.Embedding.OpenAIModel),
	}
}
