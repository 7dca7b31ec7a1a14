package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Matching     MatchingConfig
	Logging      LoggingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

// MatchingConfig tunes the recommendation pipeline.
type MatchingConfig struct {
	CacheTTL       time.Duration
	CacheBackend   string // "redis" or "memory"
	DefaultLimit   int
	FeatureLimit   int
	ScoringWorkers int
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("MATCH_CACHE_TTL_MIN", 30)
	viper.SetDefault("MATCH_CACHE_BACKEND", "redis")
	viper.SetDefault("MATCH_DEFAULT_LIMIT", 20)
	viper.SetDefault("MATCH_FEATURE_LIMIT", 10)
	viper.SetDefault("MATCH_SCORING_WORKERS", 8)
	viper.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    viper.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: viper.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Matching: MatchingConfig{
			CacheTTL:       time.Duration(viper.GetInt("MATCH_CACHE_TTL_MIN")) * time.Minute,
			CacheBackend:   viper.GetString("MATCH_CACHE_BACKEND"),
			DefaultLimit:   viper.GetInt("MATCH_DEFAULT_LIMIT"),
			FeatureLimit:   viper.GetInt("MATCH_FEATURE_LIMIT"),
			ScoringWorkers: viper.GetInt("MATCH_SCORING_WORKERS"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.Matching.CacheBackend != "redis" && c.Matching.CacheBackend != "memory" {
		return fmt.Errorf("match cache backend must be redis or memory, got %q", c.Matching.CacheBackend)
	}
	if c.Matching.CacheTTL <= 0 {
		return fmt.Errorf("match cache TTL must be positive")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetRedisAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
