package main

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the command configuration.
type Config struct {
	Radix         int
	HumanReadable bool
	Length        int
	Workers       int
	Limit         int64
	Verify        bool

	LogLevel  string
	LogFormat string
	Color     string
}

// LoadConfig reads FLOWCODE_* variables, loading a .env file first if one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Radix:         getEnvInt("FLOWCODE_RADIX", 10),
		HumanReadable: getEnvBool("FLOWCODE_HUMAN", true),
		Length:        getEnvInt("FLOWCODE_LENGTH", 7),
		Workers:       getEnvInt("FLOWCODE_WORKERS", runtime.NumCPU()),
		Limit:         getEnvInt64("FLOWCODE_LIMIT", 0),
		Verify:        getEnvBool("FLOWCODE_VERIFY", false),
		LogLevel:      getEnv("FLOWCODE_LOG_LEVEL", "info"),
		LogFormat:     getEnv("FLOWCODE_LOG_FORMAT", "text"),
		Color:         getEnv("FLOWCODE_COLOR", "auto"),
	}
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
