package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	JWTSecret    string

	// LLMProvider selects the inference backend: "openai" (any
	// OpenAI-compatible endpoint) or "gemini".
	LLMProvider string
	LLMBaseURL  string
	LLMAPIKey   string
	LLMModel    string

	// ExtractorKind selects the text extractor: "exec" (external converter
	// process) or "docconv" (in-process).
	ExtractorKind    string
	ConverterCommand string
	ConverterTimeout int // seconds

	// ContextCharBudget caps the document context assembled into the system
	// prompt, in runes.
	ContextCharBudget int

	Port string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AwsAccessKey:      getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:      getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:         getEnv("AWS_REGION", "us-east-2"),
		BucketName:        getEnv("BUCKET_NAME", "docspace-files"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
		ExtractorKind:     getEnv("EXTRACTOR", "exec"),
		ConverterCommand:  getEnv("CONVERTER_COMMAND", "markitdown"),
		ConverterTimeout:  getEnvInt("CONVERTER_TIMEOUT_SECONDS", 60),
		ContextCharBudget: getEnvInt("CONTEXT_CHAR_BUDGET", 100000),
		Port:              getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
