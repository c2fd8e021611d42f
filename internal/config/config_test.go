package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 5, cfg.News.DailyQuota)
	assert.Len(t, cfg.News.Feeds, 4)
	assert.Contains(t, cfg.News.TopicKeywords, "실거래")
	assert.Contains(t, cfg.News.ExcludeKeywords, "축제")
	assert.Equal(t, "gpt-4o", cfg.News.LLM.Model)
	assert.Equal(t, 3, cfg.News.BreakerFailures)
	assert.Equal(t, 30*time.Minute, cfg.News.GetBreakerReset())
	assert.Equal(t, 12, cfg.Admin.TokenTTLHours)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  type: sqlite
  sqlite:
    path: /tmp/test.db
news:
  daily_quota: 3
  breaker_failures: 5
  breaker_reset_minutes: 10
  feeds:
    - https://example.com/rss
site:
  office_name: 테스트공인중개사
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLite.Path)
	assert.Equal(t, 3, cfg.News.DailyQuota)
	assert.Equal(t, 5, cfg.News.BreakerFailures)
	assert.Equal(t, 10*time.Minute, cfg.News.GetBreakerReset())
	assert.Equal(t, []string{"https://example.com/rss"}, cfg.News.Feeds)
	assert.Equal(t, "테스트공인중개사", cfg.Site.OfficeName)
	// untouched sections keep defaults
	assert.Equal(t, 10, cfg.News.FeedTimeoutSeconds)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv_StripsQuotes(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", `"boss"`)
	t.Setenv("ADMIN_PASSWORD", `'secret pass'`)
	t.Setenv("ADMIN_SECRET", " signing-key ")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "boss", cfg.Admin.Username)
	assert.Equal(t, "secret pass", cfg.Admin.Password)
	assert.Equal(t, "signing-key", cfg.Admin.Secret)
	assert.Equal(t, "sk-test", cfg.News.LLM.APIKey)
}

func TestApplyEnv_DatabaseByType(t *testing.T) {
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_HOST", "mysql.internal")
	t.Setenv("DB_NAME", "burim")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.internal", cfg.Database.MySQL.Host)
	assert.Equal(t, "burim", cfg.Database.MySQL.Database)
	assert.Empty(t, cfg.Database.Postgres.Host)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "secret and password missing")

	cfg.Admin.Secret = "s"
	cfg.Admin.Password = "p"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Type = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Asia/Seoul", cfg.Location().String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, "UTC", cfg.Location().String())
}
