package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	Zoom      ZoomConfig
	Plan      PlanConfig      `mapstructure:"plan"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

// LogConfig 滚动日志文件；Level 为空时 debug 模式输出 debug，其余为 info
type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AIConfig 推荐生成与面试分析所用的对话补全接口
type AIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	UseMock        bool   `mapstructure:"use_mock"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	TTSModel       string `mapstructure:"tts_model"`
}

// MockEnabled 未配置密钥时同样走本地模拟数据
func (c AIConfig) MockEnabled() bool {
	return c.UseMock || c.APIKey == ""
}

type ZoomConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	OAuthURL     string `mapstructure:"oauth_url"`
	AccountID    string `mapstructure:"account_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UseMock      bool   `mapstructure:"use_mock"`
}

func (c ZoomConfig) MockEnabled() bool {
	return c.UseMock || c.ClientID == "" || c.ClientSecret == "" || c.AccountID == ""
}

// PlanConfig 改进计划累积时的乐观锁重试策略
type PlanConfig struct {
	MaxConflictRetries int `mapstructure:"max_conflict_retries"`
}

type JobsConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	PollIntervalSeconds int  `mapstructure:"poll_interval_seconds"`
	MaxAttempts         int  `mapstructure:"max_attempts"`
	RetryDelaySeconds   int  `mapstructure:"retry_delay_seconds"`
	StaleRunningSeconds int  `mapstructure:"stale_running_seconds"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func setDefaults() {
	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("jwt.expire_hours", 720)
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "uploads")
	viper.SetDefault("ai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("ai.model", "gpt-4")
	viper.SetDefault("ai.timeout_seconds", 60)
	viper.SetDefault("ai.tts_model", "tts-1")
	viper.SetDefault("zoom.base_url", "https://api.zoom.us/v2")
	viper.SetDefault("zoom.oauth_url", "https://zoom.us/oauth/token")
	viper.SetDefault("plan.max_conflict_retries", 5)
	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("jobs.poll_interval_seconds", 2)
	viper.SetDefault("jobs.max_attempts", 5)
	viper.SetDefault("jobs.retry_delay_seconds", 30)
	viper.SetDefault("jobs.stale_running_seconds", 300)
	viper.SetDefault("rate_limit.max_requests", 1000)
	viper.SetDefault("rate_limit.window_minutes", 1)
	viper.SetDefault("log.file", "logs/careerzoom.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age_days", 30)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CAREERZOOM")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.port", "PORT")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("ai.use_mock", "AI_USE_MOCK")

	// Zoom
	viper.BindEnv("zoom.account_id", "ZOOM_ACCOUNT_ID")
	viper.BindEnv("zoom.client_id", "ZOOM_CLIENT_ID")
	viper.BindEnv("zoom.client_secret", "ZOOM_CLIENT_SECRET")
	viper.BindEnv("zoom.use_mock", "ZOOM_USE_MOCK")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
