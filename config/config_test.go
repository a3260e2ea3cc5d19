package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "localhost", config.DBHost)
	assert.Equal(t, 3306, config.DBPort)
	assert.Equal(t, "price_insight", config.DBName)
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 60*time.Second, config.RetryDelay)
	assert.Equal(t, 10*time.Second, config.RequestTimeout)
	assert.Equal(t, 2*time.Second, config.ItemDelay)
	assert.Equal(t, "https://tiki.vn/api/v2/products", config.TikiAPIURL)
	assert.Equal(t, "tiki", config.Source)

	// Test with environment variables
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("DB_PORT", "3307")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("MAX_RETRIES", "5")
	os.Setenv("RETRY_DELAY_SECONDS", "1")
	os.Setenv("DELAY_BETWEEN_REQUESTS_SECONDS", "0")
	os.Setenv("TIKI_API_URL", "https://example.com/api/v2/products")

	config = LoadConfig()
	assert.Equal(t, "db.example.com", config.DBHost)
	assert.Equal(t, 3307, config.DBPort)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, 1*time.Second, config.RetryDelay)
	assert.Equal(t, time.Duration(0), config.ItemDelay)
	assert.Equal(t, "https://example.com/api/v2/products", config.TikiAPIURL)

	// Clean up
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_PORT")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("MAX_RETRIES")
	os.Unsetenv("RETRY_DELAY_SECONDS")
	os.Unsetenv("DELAY_BETWEEN_REQUESTS_SECONDS")
	os.Unsetenv("TIKI_API_URL")
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
database:
  host: file-db.example.com
  port: 3310
  name: price_history_test
scraper:
  maxRetries: 7
  retryDelaySeconds: 2
  source: lazada
`
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	os.Setenv("SCRAPER_CONFIG", path)
	defer os.Unsetenv("SCRAPER_CONFIG")

	config := LoadConfig()
	assert.Equal(t, "file-db.example.com", config.DBHost)
	assert.Equal(t, 3310, config.DBPort)
	assert.Equal(t, "price_history_test", config.DBName)
	assert.Equal(t, 7, config.MaxRetries)
	assert.Equal(t, 2*time.Second, config.RetryDelay)
	assert.Equal(t, "lazada", config.Source)

	// Untouched fields keep their defaults
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 10*time.Second, config.RequestTimeout)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	content := `
database:
  host: file-db.example.com
`
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	os.Setenv("SCRAPER_CONFIG", path)
	os.Setenv("DB_HOST", "env-db.example.com")
	defer os.Unsetenv("SCRAPER_CONFIG")
	defer os.Unsetenv("DB_HOST")

	config := LoadConfig()
	assert.Equal(t, "env-db.example.com", config.DBHost)
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config = LoadConfig()
	config.DBName = ""
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.MaxRetries = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.RequestTimeout = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.ItemDelay = -1 * time.Second
	assert.Error(t, config.Validate())
}

func TestDSN(t *testing.T) {
	config := defaultConfig()
	config.DBUser = "scraper"
	config.DBPassword = "secret"
	config.DBHost = "db.local"
	config.DBPort = 3306
	config.DBName = "price_insight"

	assert.Equal(t,
		"scraper:secret@tcp(db.local:3306)/price_insight?parseTime=true&charset=utf8mb4",
		config.DSN())
}
