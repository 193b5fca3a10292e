package config

import (
	"os"
	"strconv"
)

type Config struct {
	// StoreDir is the BadgerDB directory for saved models. Ignored when
	// InMemory is set.
	StoreDir string
	InMemory bool

	LogLevel  string
	UndoLimit int

	// Bridge serves the model over stdin/stdout after the demo edits.
	Bridge bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Load reads all env vars and builds the config
func Load() *Config {
	cfg := &Config{
		StoreDir:  getEnv("QMVVM_STORE_DIR", ""),
		InMemory:  getBoolEnv("QMVVM_IN_MEMORY", false),
		LogLevel:  getEnv("QMVVM_LOG_LEVEL", "warn"),
		UndoLimit: getIntEnv("QMVVM_UNDO_LIMIT", 0),
		Bridge:    getBoolEnv("QMVVM_BRIDGE", false),
	}

	// Without a directory there is nowhere to persist to
	if cfg.StoreDir == "" {
		cfg.InMemory = true
	}

	return cfg
}
