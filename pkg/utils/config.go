package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvProduction = "production"

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Name      string
	Port      string
	Env       string
	Debug     bool
	LogPath   string
	BodyLimit int64
}

// IsProduction reports whether stack traces and dev CORS origins must be hidden.
func (a AppConfig) IsProduction() bool {
	return a.Env == EnvProduction
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value string built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		d.User, d.Password, d.Name, d.Host, d.Port)
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret     string
	Expiry     time.Duration
	BcryptCost int
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type CORSConfig struct {
	Origins []string
}

type CacheConfig struct {
	RatingTTL time.Duration
}

// LoadConfig reads an optional .env file and the process environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "book-review-api")
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BODY_LIMIT_BYTES", 10<<20)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_EXPIRE", "30d")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 15*60*1000)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("RATING_CACHE_TTL", "0s")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	v.AutomaticEnv()

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	expiry, err := ParseLifetime(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_EXPIRE: %w", err)
	}

	ratingTTL, err := time.ParseDuration(v.GetString("RATING_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parse RATING_CACHE_TTL: %w", err)
	}

	env := v.GetString("APP_ENV")

	config := &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Port:      v.GetString("PORT"),
			Env:       env,
			Debug:     v.GetBool("DEBUG"),
			LogPath:   v.GetString("LOG_PATH"),
			BodyLimit: v.GetInt64("BODY_LIMIT_BYTES"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret:     secret,
			Expiry:     expiry,
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		RateLimit: RateLimitConfig{
			Window:      time.Duration(v.GetInt64("RATE_LIMIT_WINDOW_MS")) * time.Millisecond,
			MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		},
		CORS: CORSConfig{
			Origins: corsOrigins(env, v.GetString("CORS_ORIGINS")),
		},
		Cache: CacheConfig{
			RatingTTL: ratingTTL,
		},
	}

	return config, nil
}

// ParseLifetime accepts Go durations plus a day suffix ("30d", "7d").
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid lifetime %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid lifetime %q", s)
	}
	return d, nil
}

func corsOrigins(env, raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) > 0 {
		return origins
	}
	if env == EnvProduction {
		return nil
	}
	return []string{"http://localhost:3000", "http://localhost:3001"}
}
