package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	// Startup fetch endpoints. Empty disables the fetch.
	ConfigURL  string
	CatalogURL string

	// GitHub contents API target for the catalog sync proxy.
	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string
	GitHubPath   string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.ConfigURL = getEnv("CONFIG_URL", "")
	cfg.CatalogURL = getEnv("CATALOG_URL", "")
	cfg.GitHubToken = getEnv("GITHUB_TOKEN", "")
	cfg.GitHubOwner = getEnv("GITHUB_OWNER", "Julioamancio")
	cfg.GitHubRepo = getEnv("GITHUB_REPO", "alcaponeburger")
	cfg.GitHubBranch = getEnv("GITHUB_BRANCH", "main")
	cfg.GitHubPath = getEnv("GITHUB_PATH", "public/products.json")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
