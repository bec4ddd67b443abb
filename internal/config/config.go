package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvDevelopment is the runtime mode in which the auth cookie is sent
// without the Secure attribute.
const EnvDevelopment = "development"

// Config holds the process configuration. It is loaded once at startup and
// read-only afterwards; components receive it (or the fields they need)
// explicitly instead of reading the environment themselves.
type Config struct {
	ServerPort string
	Env        string

	MongoURI string
	MongoDB  string

	JWTSecret string

	RedisAddr     string
	RedisPassword string

	CORSAllowedOrigins []string
	LogLevel           string

	// Media storage credentials, recognized for parity with the deployment
	// environment. Nothing in the auth slice consumes them.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// Load reads configuration from a .env file (if present) and the
// environment. It fails when a required value is missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	cfg := &Config{
		ServerPort: getEnv("PORT", "5000"),
		Env:        getEnv("ENV", EnvDevelopment),

		MongoURI: getEnv("MONGO_URI", ""),
		MongoDB:  getEnv("MONGO_DB", "xc"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// getEnv retrieves the environment variable named by key, falling back to
// the given default when unset.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
