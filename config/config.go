package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
)

// Config represents the application configuration. It is constructed once at
// startup and passed by reference into the worker and the fetchers.
type Config struct {
	// MySQL configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration (run summary stream)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration (provider cooldowns)
	MemcacheAddr string

	// Scraper configuration
	MaxRetries     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	ItemDelay      time.Duration
	CooldownTime   time.Duration

	// Upstream endpoints
	TikiAPIURL       string
	LazadaProductURL string

	// Source tag written to the session log
	Source string

	// Environment
	Environment string
}

// fileConfig mirrors Config for the optional YAML file named by
// SCRAPER_CONFIG. Pointer fields distinguish "absent" from zero.
type fileConfig struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     *int   `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`
	Redis struct {
		Addr            string `yaml:"addr"`
		DB              *int   `yaml:"db"`
		Stream          string `yaml:"stream"`
		StreamMaxLength *int   `yaml:"streamMaxLength"`
	} `yaml:"redis"`
	Memcache struct {
		Addr string `yaml:"addr"`
	} `yaml:"memcache"`
	Scraper struct {
		MaxRetries            *int   `yaml:"maxRetries"`
		RetryDelaySeconds     *int   `yaml:"retryDelaySeconds"`
		RequestTimeoutSeconds *int   `yaml:"requestTimeoutSeconds"`
		ItemDelaySeconds      *int   `yaml:"itemDelaySeconds"`
		CooldownSeconds       *int   `yaml:"cooldownSeconds"`
		Source                string `yaml:"source"`
		TikiAPIURL            string `yaml:"tikiApiUrl"`
		LazadaProductURL      string `yaml:"lazadaProductUrl"`
	} `yaml:"scraper"`
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by SCRAPER_CONFIG, and environment variable overrides, in that order.
func LoadConfig() *Config {
	cfg := defaultConfig()
	cfg.applyFile()
	cfg.applyEnvOverrides()
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		DBHost:               "localhost",
		DBPort:               3306,
		DBUser:               "root",
		DBPassword:           "",
		DBName:               "price_insight",
		RedisAddr:            "localhost:6379",
		RedisDB:              0,
		RedisStream:          "scrape_summary",
		RedisStreamMaxLength: 100,
		MemcacheAddr:         "localhost:11211",
		MaxRetries:           3,
		RetryDelay:           60 * time.Second,
		RequestTimeout:       10 * time.Second,
		ItemDelay:            2 * time.Second,
		CooldownTime:         60 * time.Second,
		TikiAPIURL:           "https://tiki.vn/api/v2/products",
		LazadaProductURL:     "https://www.lazada.vn/products/pdp-i%s.html",
		Source:               "tiki",
		Environment:          "development",
	}
}

func (c *Config) applyFile() {
	path := os.Getenv("SCRAPER_CONFIG")
	if path == "" {
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		// Missing file falls back to defaults and env, same as no file at all
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return
	}

	if fc.Database.Host != "" {
		c.DBHost = fc.Database.Host
	}
	if fc.Database.Port != nil {
		c.DBPort = *fc.Database.Port
	}
	if fc.Database.User != "" {
		c.DBUser = fc.Database.User
	}
	if fc.Database.Password != "" {
		c.DBPassword = fc.Database.Password
	}
	if fc.Database.Name != "" {
		c.DBName = fc.Database.Name
	}

	if fc.Redis.Addr != "" {
		c.RedisAddr = fc.Redis.Addr
	}
	if fc.Redis.DB != nil {
		c.RedisDB = *fc.Redis.DB
	}
	if fc.Redis.Stream != "" {
		c.RedisStream = fc.Redis.Stream
	}
	if fc.Redis.StreamMaxLength != nil {
		c.RedisStreamMaxLength = *fc.Redis.StreamMaxLength
	}

	if fc.Memcache.Addr != "" {
		c.MemcacheAddr = fc.Memcache.Addr
	}

	if fc.Scraper.MaxRetries != nil {
		c.MaxRetries = *fc.Scraper.MaxRetries
	}
	if fc.Scraper.RetryDelaySeconds != nil {
		c.RetryDelay = time.Duration(*fc.Scraper.RetryDelaySeconds) * time.Second
	}
	if fc.Scraper.RequestTimeoutSeconds != nil {
		c.RequestTimeout = time.Duration(*fc.Scraper.RequestTimeoutSeconds) * time.Second
	}
	if fc.Scraper.ItemDelaySeconds != nil {
		c.ItemDelay = time.Duration(*fc.Scraper.ItemDelaySeconds) * time.Second
	}
	if fc.Scraper.CooldownSeconds != nil {
		c.CooldownTime = time.Duration(*fc.Scraper.CooldownSeconds) * time.Second
	}
	if fc.Scraper.Source != "" {
		c.Source = fc.Scraper.Source
	}
	if fc.Scraper.TikiAPIURL != "" {
		c.TikiAPIURL = fc.Scraper.TikiAPIURL
	}
	if fc.Scraper.LazadaProductURL != "" {
		c.LazadaProductURL = fc.Scraper.LazadaProductURL
	}
}

func (c *Config) applyEnvOverrides() {
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnvInt("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisStream = getEnv("REDIS_STREAM", c.RedisStream)
	c.RedisStreamMaxLength = getEnvInt("REDIS_STREAM_MAX_LENGTH", c.RedisStreamMaxLength)

	c.MemcacheAddr = getEnv("MEMCACHE_ADDR", c.MemcacheAddr)

	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvSeconds("RETRY_DELAY_SECONDS", c.RetryDelay)
	c.RequestTimeout = getEnvSeconds("REQUEST_TIMEOUT_SECONDS", c.RequestTimeout)
	c.ItemDelay = getEnvSeconds("DELAY_BETWEEN_REQUESTS_SECONDS", c.ItemDelay)
	c.CooldownTime = getEnvSeconds("COOLDOWN_SECONDS", c.CooldownTime)

	c.TikiAPIURL = getEnv("TIKI_API_URL", c.TikiAPIURL)
	c.LazadaProductURL = getEnv("LAZADA_PRODUCT_URL", c.LazadaProductURL)
	c.Source = getEnv("SCRAPE_SOURCE", c.Source)
	c.Environment = getEnv("SCRAPER_ENVIRONMENT", c.Environment)
}

// DSN returns the MySQL data source name for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.DBName == "" {
		return scrapeerrors.NewConfiguration("database name is required", nil)
	}
	if c.DBUser == "" {
		return scrapeerrors.NewConfiguration("database user is required", nil)
	}
	if c.MaxRetries < 1 {
		return scrapeerrors.NewConfiguration("max retries must be at least 1", nil)
	}
	if c.RequestTimeout <= 0 {
		return scrapeerrors.NewConfiguration("request timeout must be positive", nil)
	}
	if c.RetryDelay < 0 || c.ItemDelay < 0 {
		return scrapeerrors.NewConfiguration("delays must not be negative", nil)
	}
	if c.RedisStreamMaxLength < 1 {
		return scrapeerrors.NewConfiguration("redis stream max length must be at least 1", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(n) * time.Second
}
