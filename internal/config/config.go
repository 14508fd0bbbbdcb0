// Package config provides application configuration for the wicker CLI.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable via WICKER_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
)

// Config holds all application configuration.
type Config struct {
	Addr     string
	LogLevel string

	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BoltPath      string
	SessionTTL    time.Duration

	// RulesPath points to an optional YAML routing table loaded at startup.
	RulesPath string

	// NLUEndpoint enables the hosted intent recognizer when non-empty.
	NLUEndpoint string

	// EncryptionKey enables session encryption at rest when non-empty.
	// WICKER_ENCRYPTION_KEY carries it hex-encoded: 64 hex chars for AES-256.
	EncryptionKey []byte

	// PIIPatterns are key patterns masked before sessions reach the store,
	// comma-separated in WICKER_PII_PATTERNS.
	PIIPatterns []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	ttl, err := getEnvDuration("WICKER_SESSION_TTL", 0)
	if err != nil {
		return nil, err
	}

	key, err := getEnvHex("WICKER_ENCRYPTION_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:          getEnv("WICKER_ADDR", ":8080"),
		LogLevel:      getEnv("WICKER_LOG_LEVEL", "info"),
		Store:         getEnv("WICKER_STORE", StoreMemory),
		RedisAddr:     getEnv("WICKER_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("WICKER_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("WICKER_REDIS_DB", 0),
		BoltPath:      getEnv("WICKER_BOLT_PATH", "./data/sessions.db"),
		SessionTTL:    ttl,
		RulesPath:     getEnv("WICKER_RULES_PATH", ""),
		NLUEndpoint:   getEnv("WICKER_NLU_ENDPOINT", ""),
		EncryptionKey: key,
		PIIPatterns:   getEnvList("WICKER_PII_PATTERNS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis, StoreBolt:
	default:
		return fmt.Errorf("WICKER_STORE must be one of %s, %s, %s", StoreMemory, StoreRedis, StoreBolt)
	}
	if c.Addr == "" {
		return fmt.Errorf("WICKER_ADDR cannot be empty")
	}
	if c.Store == StoreBolt && c.BoltPath == "" {
		return fmt.Errorf("WICKER_BOLT_PATH cannot be empty")
	}
	if c.Store == StoreRedis && c.RedisAddr == "" {
		return fmt.Errorf("WICKER_REDIS_ADDR cannot be empty")
	}
	if len(c.EncryptionKey) != 0 && len(c.EncryptionKey) != 32 {
		return fmt.Errorf("WICKER_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(c.EncryptionKey))
	}
	for _, p := range c.PIIPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("WICKER_PII_PATTERNS entry %q is not a valid pattern: %w", p, err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvHex(key string) ([]byte, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", key, err)
	}
	return raw, nil
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
