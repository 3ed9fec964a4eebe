package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultJWTSecret = "replace_me"

	// MinBcryptCost keeps password hashing deliberately slow.
	MinBcryptCost = 10
	maxBcryptCost = 31
)

type Config struct {
	APIPort string
	Env     string

	JWTKey     []byte
	JWTExp     time.Duration
	CookieName string
	BcryptCost int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClientOrigins   []string
	RateLimitMax    int
	RateLimitWindow time.Duration

	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	env := strings.ToLower(getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment)))
	cfg := &Config{
		APIPort:         getEnv("API_PORT", getEnv("PORT", "4000")),
		Env:             env,
		JWTKey:          []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		JWTExp:          time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 7*24)) * time.Hour,
		CookieName:      getEnv("COOKIE_NAME", "mini_one_token"),
		BcryptCost:      getEnvAsInt("BCRYPT_COST", 12),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "user"),
		DBPassword:      getEnv("DB_PASSWORD", "password"),
		DBName:          getEnv("DB_NAME", "mini_one"),
		DBSslMode:       getEnv("DB_SSLMODE", "disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		ClientOrigins:   splitList(getEnv("CLIENT_ORIGINS", "")),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 200),
		RateLimitWindow: time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	defaultLevel := "info"
	if env == EnvDevelopment {
		defaultLevel = "debug"
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", defaultLevel)

	cfg.DBConnStr = getEnv("DATABASE_URL", "")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

func (c *Config) validate() error {
	if len(c.JWTKey) == 0 {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && string(c.JWTKey) == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExp <= 0 {
		return errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	if c.BcryptCost < MinBcryptCost || c.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", MinBcryptCost, maxBcryptCost)
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("rate limit max and window must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
