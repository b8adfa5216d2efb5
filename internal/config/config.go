// Package config reads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kernel/socialpost/internal/feed"
	"github.com/kernel/socialpost/internal/host"
	"github.com/samber/lo"
)

// Backend names accepted by SOCIALPOST_BACKEND.
const (
	BackendAuto     = "auto"
	BackendHost     = "host"
	BackendLocal    = "local"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends lists every accepted backend name.
func Backends() []string {
	return []string{BackendAuto, BackendHost, BackendLocal, BackendPostgres, BackendMemory}
}

// Config is the resolved runtime configuration.
type Config struct {
	// HostRoot is the chat host's install directory.
	HostRoot string
	// HostSettings overrides the host settings file derived from HostRoot.
	HostSettings string
	// ChatDir overrides the transcript directory derived from HostRoot.
	ChatDir string

	Backend     string
	LocalDB     string
	DatabaseURL string
	Namespace   string

	MaxPosts        int
	AutoProbability float64
	AutoDelay       time.Duration
	Seed            uint64
	LogLevel        string
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load() // Load .env file if it exists

	return Config{
		HostRoot:        getEnv("SOCIALPOST_HOST_ROOT", ""),
		HostSettings:    getEnv("SOCIALPOST_HOST_SETTINGS", ""),
		ChatDir:         getEnv("SOCIALPOST_CHAT_DIR", ""),
		Backend:         getEnv("SOCIALPOST_BACKEND", BackendAuto),
		LocalDB:         getEnv("SOCIALPOST_LOCAL_DB", defaultLocalDB()),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Namespace:       getEnv("SOCIALPOST_NAMESPACE", host.Namespace),
		MaxPosts:        getEnvAsInt("SOCIALPOST_MAX_POSTS", feed.DefaultMaxPosts),
		AutoProbability: getEnvAsFloat("SOCIALPOST_AUTO_PROBABILITY", 0.2),
		AutoDelay:       getEnvAsDuration("SOCIALPOST_AUTO_DELAY", time.Second),
		Seed:            uint64(getEnvAsInt("SOCIALPOST_SEED", 0)),
		LogLevel:        getEnv("SOCIALPOST_LOG_LEVEL", "info"),
	}
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if !lo.Contains(Backends(), c.Backend) {
		return fmt.Errorf("unknown backend %q: expected one of %v", c.Backend, Backends())
	}
	if c.Backend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("backend %q requires DATABASE_URL", BackendPostgres)
	}
	if c.MaxPosts < 1 {
		return fmt.Errorf("max posts must be at least 1, got %d", c.MaxPosts)
	}
	if c.AutoProbability < 0 || c.AutoProbability > 1 {
		return fmt.Errorf("auto probability must be between 0 and 1, got %g", c.AutoProbability)
	}
	if c.AutoDelay < 0 {
		return fmt.Errorf("auto delay must not be negative, got %s", c.AutoDelay)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	return nil
}

// SettingsPath is the host settings file, or "" when unknown.
func (c Config) SettingsPath() string {
	if c.HostSettings != "" {
		return c.HostSettings
	}
	if c.HostRoot != "" {
		return host.SettingsPath(c.HostRoot)
	}
	return ""
}

// ChatsPath is the transcript directory, or "" when unknown.
func (c Config) ChatsPath() string {
	if c.ChatDir != "" {
		return c.ChatDir
	}
	if c.HostRoot != "" {
		return host.ChatsPath(c.HostRoot)
	}
	return ""
}

func defaultLocalDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "socialpost.db")
	}
	return filepath.Join(dir, "socialpost", "local.db")
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
