package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Redis     RedisConfig     `yaml:"redis"`
	Admin     AdminConfig     `yaml:"admin"`
	News      NewsConfig      `yaml:"news"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Site      SiteConfig      `yaml:"site"`
	UserAgent string          `yaml:"user_agent"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"` // mysql, postgres or sqlite
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SQLiteConfig contains the SQLite database file location
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings.
// An empty host disables the secondary index.
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
	Index  string `yaml:"index"`
}

// RedisConfig contains Redis connection settings.
// An empty address falls back to the in-memory rate limiter.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AdminConfig contains admin session settings
type AdminConfig struct {
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	PasswordHash  string `yaml:"password_hash"` // bcrypt hash, takes precedence over Password
	Secret        string `yaml:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	SecureCookie  bool   `yaml:"secure_cookie"`
}

// NewsConfig contains news ingestion settings
type NewsConfig struct {
	Feeds               []string  `yaml:"feeds"`
	DailyQuota          int       `yaml:"daily_quota"`
	FeedTimeoutSeconds  int       `yaml:"feed_timeout_seconds"`
	BreakerFailures     int       `yaml:"breaker_failures"`      // consecutive failures before a feed is skipped
	BreakerResetMinutes int       `yaml:"breaker_reset_minutes"` // how long a tripped feed stays skipped
	TopicKeywords       []string  `yaml:"topic_keywords"`
	ExcludeKeywords     []string  `yaml:"exclude_keywords"`
	LocalityKeywords    []string  `yaml:"locality_keywords"`
	LLM                 LLMConfig `yaml:"llm"`
}

// LLMConfig contains generative text service settings
type LLMConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// RateLimitConfig contains rate limiting settings for public write routes
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// CleanupConfig contains stale draft cleanup settings
type CleanupConfig struct {
	DailyRunEnabled  bool   `yaml:"daily_run_enabled"`
	DailyRunTime     string `yaml:"daily_run_time"`
	RetentionDays    int    `yaml:"retention_days"`
	MaxDeletionCount int    `yaml:"max_deletion_count"`
}

// SiteConfig holds defaults for the site settings row
type SiteConfig struct {
	Phone      string `yaml:"phone"`
	Address    string `yaml:"address"`
	OfficeName string `yaml:"office_name"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
	SQL     bool   `yaml:"sql"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Type: "postgres",
			Postgres: PostgresConfig{
				SSLMode: "disable",
			},
			SQLite: SQLiteConfig{
				Path: "burim.db",
			},
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Index: "properties",
			},
		},
		Admin: AdminConfig{
			Username:      "admin",
			TokenTTLHours: 12,
		},
		News: NewsConfig{
			Feeds: []string{
				"http://www.molit.go.kr/dev/board/board_rss.jsp?rss_id=NEWS",
				"https://www.mk.co.kr/rss/50300009/",
				"http://news.suwon.go.kr/openAPI/?CG=AL",
				"https://gnews.gg.go.kr/news/news_rss.do",
			},
			DailyQuota:          5,
			FeedTimeoutSeconds:  10,
			BreakerFailures:     3,
			BreakerResetMinutes: 30,
			TopicKeywords: []string{
				"아파트", "전세", "월세", "공급", "분양", "집값", "대출", "금리",
				"임대", "정부", "정책", "시장", "국토부", "세금", "규제", "실거래",
			},
			ExcludeKeywords: []string{
				"복지", "캠페인", "행사", "축제", "문화", "예술", "지원금", "모집", "대회", "공연", "전시",
			},
			LocalityKeywords: []string{"수원", "매교", "세류", "권선", "팔달"},
			LLM: LLMConfig{
				Model:          "gpt-4o",
				Temperature:    0.6,
				TimeoutSeconds: 60,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 5,
			RequestsPerHour:   30,
			RequestsPerDay:    100,
		},
		Cleanup: CleanupConfig{
			DailyRunEnabled:  false,
			DailyRunTime:     "03:00",
			RetentionDays:    30,
			MaxDeletionCount: 500,
		},
		Site: SiteConfig{
			Phone:      "031-123-4567",
			Address:    "경기도 수원시 팔달구 매교동 123-45",
			OfficeName: "부림공인중개사사무소",
		},
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
		Timezone: "Asia/Seoul",
	}
}

// LoadConfig loads configuration from a YAML file, then applies environment overrides
func LoadConfig(filepath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := DefaultConfig()

	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv overrides secrets and connection settings from the environment
func (c *Config) ApplyEnv() {
	c.Server.Port = getEnvOrConfig("PORT", c.Server.Port)
	c.Database.Type = getEnvOrConfig("DB_TYPE", c.Database.Type)

	switch c.Database.Type {
	case "mysql":
		c.Database.MySQL.Host = getEnvOrConfig("DB_HOST", c.Database.MySQL.Host)
		c.Database.MySQL.User = getEnvOrConfig("DB_USER", c.Database.MySQL.User)
		c.Database.MySQL.Password = getEnvOrConfig("DB_PASSWORD", c.Database.MySQL.Password)
		c.Database.MySQL.Database = getEnvOrConfig("DB_NAME", c.Database.MySQL.Database)
	case "postgres":
		c.Database.Postgres.Host = getEnvOrConfig("DB_HOST", c.Database.Postgres.Host)
		c.Database.Postgres.User = getEnvOrConfig("DB_USER", c.Database.Postgres.User)
		c.Database.Postgres.Password = getEnvOrConfig("DB_PASSWORD", c.Database.Postgres.Password)
		c.Database.Postgres.Database = getEnvOrConfig("DB_NAME", c.Database.Postgres.Database)
	case "sqlite":
		c.Database.SQLite.Path = getEnvOrConfig("DB_PATH", c.Database.SQLite.Path)
	}

	c.Search.Meilisearch.Host = getEnvOrConfig("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = getEnvOrConfig("MEILISEARCH_KEY", c.Search.Meilisearch.APIKey)
	c.Redis.Addr = getEnvOrConfig("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvOrConfig("REDIS_PASSWORD", c.Redis.Password)

	c.Admin.Username = unquote(getEnvOrConfig("ADMIN_USERNAME", c.Admin.Username))
	c.Admin.Password = unquote(getEnvOrConfig("ADMIN_PASSWORD", c.Admin.Password))
	c.Admin.PasswordHash = unquote(getEnvOrConfig("ADMIN_PASSWORD_HASH", c.Admin.PasswordHash))
	c.Admin.Secret = unquote(getEnvOrConfig("ADMIN_SECRET", c.Admin.Secret))

	c.News.LLM.APIKey = unquote(getEnvOrConfig("OPENAI_API_KEY", c.News.LLM.APIKey))
	c.Timezone = getEnvOrConfig("TZ_NAME", c.Timezone)
}

// Validate reports configuration that would leave the service unusable
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Admin.Secret == "" {
		return fmt.Errorf("admin secret is required (ADMIN_SECRET)")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin password is required (ADMIN_PASSWORD or ADMIN_PASSWORD_HASH)")
	}
	if c.News.DailyQuota <= 0 {
		return fmt.Errorf("news.daily_quota must be positive")
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetFeedTimeout returns the per-feed fetch timeout as a duration
func (c *NewsConfig) GetFeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSeconds) * time.Second
}

// GetBreakerReset returns how long a tripped feed breaker stays open
func (c *NewsConfig) GetBreakerReset() time.Duration {
	return time.Duration(c.BreakerResetMinutes) * time.Minute
}

// GetTimeout returns the generation call timeout as a duration
func (c *LLMConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetTokenTTL returns the admin token lifetime as a duration
func (c *AdminConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// getEnvOrConfig returns the environment value if set, otherwise the config value
func getEnvOrConfig(envKey, configValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return configValue
}

// unquote strips one pair of surrounding quotes left by some .env editors
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
