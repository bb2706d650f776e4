package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	AWSRegion     string
	S3Bucket      string
	RedisAddr     string
	RedisPassword string
	StripeKey     string
	Currency      string
	GeminiAPIKey  string
	GeminiModel   string
	JWTSecret     string
	CronSecret    string
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		AWSRegion:     getenv("AWS_REGION", "ap-south-1"),
		S3Bucket:      getenv("S3_BUCKET_NAME", "bartr-chat-files"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		StripeKey:     getenv("STRIPE_SECRET_KEY", ""),
		Currency:      getenv("CHECKOUT_CURRENCY", "inr"),
		GeminiAPIKey:  getenv("GEMINI_API_KEY", ""),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		CronSecret:    getenv("CRON_SECRET", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
