package model

// ================ Config ================

type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"15m"`
}

type RouterModelConfig struct {
	Model       string  `envconfig:"ROUTER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"ROUTER_MAX_TOKENS" default:"50"`
	Temperature float32 `envconfig:"ROUTER_TEMPERATURE" default:"0"`
}

type AnswerModelConfig struct {
	Model       string  `envconfig:"ANSWER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANSWER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ANSWER_TEMPERATURE" default:"0.7"`
}

type ComposerModelConfig struct {
	Model       string  `envconfig:"COMPOSER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"COMPOSER_MAX_TOKENS" default:"3000"`
	Temperature float32 `envconfig:"COMPOSER_TEMPERATURE" default:"0.5"`
}

// SchedulerConfig bounds the batch search loop. BatchSize stays small on
// purpose: it is the streaming granularity, not a throughput knob.
type SchedulerConfig struct {
	BatchSize       int    `envconfig:"SCHEDULER_BATCH_SIZE" default:"2"`
	MaxRetries      int    `envconfig:"SCHEDULER_MAX_RETRIES" default:"3"`
	BackoffBaseMS   int    `envconfig:"SCHEDULER_BACKOFF_BASE_MS" default:"2000"`
	InterRequestMS  int    `envconfig:"SCHEDULER_INTER_REQUEST_MS" default:"300"`
	DefaultTimezone string `envconfig:"SCHEDULER_DEFAULT_TZ" default:"Asia/Seoul"`
}

// BudgetConfig holds the fixed trip-costing constants, all in the reference
// currency (KRW).
type BudgetConfig struct {
	TargetBudget    float64 `envconfig:"BUDGET_TARGET" default:"1000000"`
	Days            int     `envconfig:"BUDGET_DAYS" default:"6"`
	MealsPerDay     int     `envconfig:"BUDGET_MEALS_PER_DAY" default:"3"`
	MealPrice       float64 `envconfig:"BUDGET_MEAL_PRICE" default:"15000"`
	RoomPriceFloor  float64 `envconfig:"BUDGET_ROOM_PRICE_FLOOR" default:"50000"`
	ConversionToKRW float64 `envconfig:"BUDGET_KRW_CONVERSION" default:"1450"`
	TopDestinations int     `envconfig:"BUDGET_TOP_DESTINATIONS" default:"5"`
}

type AmadeusConfig struct {
	ClientID     string `envconfig:"AMADEUS_CLIENT_ID"`
	ClientSecret string `envconfig:"AMADEUS_CLIENT_SECRET"`
	BaseURL      string `envconfig:"AMADEUS_BASE_URL" default:"https://test.api.amadeus.com"`
	TimeoutSec   int    `envconfig:"AMADEUS_TIMEOUT_SEC" default:"30"`
}

type GeoIPConfig struct {
	BaseURL    string `envconfig:"GEOIP_BASE_URL" default:"http://ip-api.com"`
	TimeoutSec int    `envconfig:"GEOIP_TIMEOUT_SEC" default:"5"`
	CacheTTL   string `envconfig:"GEOIP_CACHE_TTL" default:"30m"`
}

type EmbeddingConfig struct {
	Enabled     bool   `envconfig:"EMBEDDING_ENABLED" default:"false"`
	GeminiModel string `envconfig:"EMBEDDING_GEMINI_MODEL" default:"gemini-embedding-001"`
	OpenAIModel string `envconfig:"EMBEDDING_OPENAI_MODEL" default:"text-embedding-3-small"`
	BatchSize   int    `envconfig:"EMBEDDING_BATCH_SIZE" default:"2"`
	BatchGapMS  int    `envconfig:"EMBEDDING_BATCH_GAP_MS" default:"5000"`
}

type RoomStoreConfig struct {
	Path string `envconfig:"ROOM_DB_PATH" default:"rooms.db"`
}
