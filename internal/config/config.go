package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	MongoDBURI      string
	MongoDBDatabase string
	RedisAddr       string

	JWTAccessSecret      string
	JWTRefreshSecret     string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	BcryptCost           int
	EncryptionKey        string

	GoogleClientID string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	CORSWhitelist []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "sarahah"),
		RedisAddr:       getEnvWithDefault("REDIS_ADDR", "localhost:6379"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		EncryptionKey:    os.Getenv("ENCRYPTION_KEY"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		SMTPHost:     getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
	}

	var err error
	cfg.JWTAccessExpiration, err = parseDuration("JWT_ACCESS_EXPIRATION", "15m")
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshExpiration, err = parseDuration("JWT_REFRESH_EXPIRATION", "168h")
	if err != nil {
		return nil, err
	}

	cost := getEnvWithDefault("BCRYPT_COST", "10")
	cfg.BcryptCost, err = strconv.Atoi(cost)
	if err != nil || cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST must be an integer between 4 and 31")
	}

	if whitelist := os.Getenv("CORS_WHITELIST"); whitelist != "" {
		for _, origin := range strings.Split(whitelist, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSWhitelist = append(cfg.CORSWhitelist, origin)
			}
		}
	}
	if len(cfg.CORSWhitelist) == 0 {
		cfg.CORSWhitelist = []string{"http://localhost:3000"}
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required")
	}
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnvWithDefault(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration (e.g. 15m, 24h): %v", key, err)
	}
	return d, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
