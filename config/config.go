package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration, loaded from environment variables
type Config struct {
	Host           string
	Port           string
	AllowedOrigins string

	// Gemini vision extraction service
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Translation service
	TranslateBaseURL string
	TranslateTimeout time.Duration
	TargetLanguage   string

	// Browser rendering
	PageLoadTimeout time.Duration
	ViewportWidth   int
	ViewportHeight  int

	// API rate limiting (requests per second per client)
	RateLimitRPS float64
}

// Load reads the configuration from the environment with sensible defaults
func Load() *Config {
	return &Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiTimeout: getEnvDuration("GEMINI_TIMEOUT", 90*time.Second),

		TranslateBaseURL: getEnv("TRANSLATE_BASE_URL", "https://translate.googleapis.com"),
		TranslateTimeout: getEnvDuration("TRANSLATE_TIMEOUT", 15*time.Second),
		TargetLanguage:   getEnv("TARGET_LANGUAGE", "en"),

		PageLoadTimeout: getEnvDuration("PAGE_LOAD_TIMEOUT", 60*time.Second),
		ViewportWidth:   getEnvInt("VIEWPORT_WIDTH", 1920),
		ViewportHeight:  getEnvInt("VIEWPORT_HEIGHT", 1080),

		RateLimitRPS: getEnvFloat("RATE_LIMIT_RPS", 5),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
