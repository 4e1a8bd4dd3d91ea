package config

import (
	"log"
	"os"
)

const (
	defaultDBPath      = "./docepreco.db"
	defaultPort        = "8080"
	defaultGeminiModel = "gemini-2.5-flash-preview-09-2025"
	defaultCurrency    = "BRL"
	defaultLocale      = "pt-BR"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AppPassword   string
	SessionSecret string
	DBPath        string
	Port          string
	GeminiAPIKey  string
	GeminiModel   string
	Currency      string
	Locale        string
}

// IsDev reports whether the app runs in development mode, where migrations
// are applied automatically at startup.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "dev"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		AppPassword:   os.Getenv("APP_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          os.Getenv("PORT"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		Currency:      os.Getenv("CURRENCY"),
		Locale:        os.Getenv("LOCALE"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = defaultGeminiModel
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}

	if cfg.AppPassword == "" {
		log.Print("warning: APP_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}
	if cfg.GeminiAPIKey == "" {
		log.Print("warning: GEMINI_API_KEY is not set; marketing copy is disabled")
	}

	return cfg
}
