package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabasePath         string
	LogLevel             string
	ClientID             string
	ClientSecret         string
	FinancialInstitution string
	TokenPath            string
	PollInterval         time.Duration
	DemoMode             bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DatabasePath:         getEnv("DATABASE_PATH", "autobank.db"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ClientID:             getEnv("CLIENT_ID", ""),
		ClientSecret:         getEnv("CLIENT_SECRET", ""),
		FinancialInstitution: getEnv("FINANCIAL_INSTITUTION", "fid-smn"),
		TokenPath:            getEnv("TOKEN_PATH", "tokens.json"),
		DemoMode:             getEnv("DEMO_MODE", "false") == "true",
	}

	pollIntervalStr := getEnv("POLL_INTERVAL", "300s")
	pollInterval, err := time.ParseDuration(pollIntervalStr)
	if err != nil {
		log.Printf("WARNING: Invalid POLL_INTERVAL %q, using default 300s", pollIntervalStr)
		pollInterval = 300 * time.Second
	}
	cfg.PollInterval = pollInterval

	if !cfg.DemoMode && (cfg.ClientID == "" || cfg.ClientSecret == "") {
		log.Fatal("CLIENT_ID and CLIENT_SECRET are required outside demo mode")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
