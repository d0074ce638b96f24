package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StoreMongo = "mongo"
	StoreMySQL = "mysql"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Log      LogConfig      `toml:"log"`
	Store    StoreConfig    `toml:"store"`
	Mongo    MongoConfig    `toml:"mongo"`
	MySQL    MySQLConfig    `toml:"mysql"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	LLM      LLMConfig      `toml:"llm"`
	Prompt   PromptConfig   `toml:"prompt"`
	Upload   UploadConfig   `toml:"upload"`
}

type AppConfig struct {
	Name        string   `toml:"name"`
	Env         string   `toml:"env"`
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	GinMode     string   `toml:"gin_mode"`
	CORSOrigins []string `toml:"cors_origins"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type StoreConfig struct {
	Backend string `toml:"backend"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

// RedisConfig enables the document cache when Addr is set.
type RedisConfig struct {
	Addr               string `toml:"addr"`
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	DocumentTTLSeconds int    `toml:"document_ttl_seconds"`
}

// RabbitMQConfig enables upload events when URL is set.
type RabbitMQConfig struct {
	URL                string `toml:"url"`
	DocumentEventQueue string `toml:"document_event_queue"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PromptConfig.MaxDocumentChars caps the document text embedded in a prompt; 0 means no cap.
type PromptConfig struct {
	MaxDocumentChars int `toml:"max_document_chars"`
}

type UploadConfig struct {
	TempDir  string `toml:"temp_dir"`
	MaxBytes int64  `toml:"max_bytes"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMongo, StoreMySQL:
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	if c.Prompt.MaxDocumentChars < 0 {
		return fmt.Errorf("prompt.max_document_chars must not be negative")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "pdfqa",
			Env:         "dev",
			Host:        "0.0.0.0",
			Port:        3001,
			GinMode:     "debug",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Store: StoreConfig{
			Backend: StoreMongo,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://127.0.0.1:27017",
			Database:   "pdfqa",
			Collection: "documents",
		},
		MySQL: MySQLConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			User:   "root",
			DB:     "pdfqa",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
		Redis: RedisConfig{
			DocumentTTLSeconds: 86400,
		},
		RabbitMQ: RabbitMQConfig{
			DocumentEventQueue: "pdfqa.document.uploaded",
		},
		LLM: LLMConfig{
			Provider: ProviderGemini,
			Model:    "gemini-1.5-flash",
		},
		Upload: UploadConfig{
			TempDir:  "uploads",
			MaxBytes: 20 << 20,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("PORT", getEnvAsInt("APP_PORT", cfg.App.Port))
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.CORSOrigins = getEnvAsList("CORS_ORIGINS", cfg.App.CORSOrigins)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Store.Backend = strings.ToLower(getEnv("STORE_BACKEND", cfg.Store.Backend))

	cfg.Mongo.URI = getEnv("MONGODB_URL", getEnv("MONGODB_URI", cfg.Mongo.URI))
	cfg.Mongo.Database = getEnv("MONGODB_DATABASE", cfg.Mongo.Database)
	cfg.Mongo.Collection = getEnv("MONGODB_COLLECTION", cfg.Mongo.Collection)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.DocumentTTLSeconds = getEnvAsInt("REDIS_DOCUMENT_TTL_SECONDS", cfg.Redis.DocumentTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.DocumentEventQueue = getEnv("RABBITMQ_DOCUMENT_EVENT_QUEUE", cfg.RabbitMQ.DocumentEventQueue)

	cfg.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLM.Provider))
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("GOOGLE_GENERATIVE_AI_API_KEY", getEnv("LLM_API_KEY", cfg.LLM.APIKey))
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.TimeoutSeconds = getEnvAsInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds)

	cfg.Prompt.MaxDocumentChars = getEnvAsInt("PROMPT_MAX_DOCUMENT_CHARS", cfg.Prompt.MaxDocumentChars)

	cfg.Upload.TempDir = getEnv("UPLOAD_TEMP_DIR", cfg.Upload.TempDir)
	cfg.Upload.MaxBytes = int64(getEnvAsInt("UPLOAD_MAX_BYTES", int(cfg.Upload.MaxBytes)))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
