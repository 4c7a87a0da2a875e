package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, once per process. It returns the file it loaded, or ""
// when none was found or loading failed.
func LoadEnv() string {
	var loaded string
	once.Do(func() {
		loaded = loadEnvFile(".")
	})
	return loaded
}

func loadEnvFile(dir string) string {
	for _, candidate := range []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, "..", ".env"),
	} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return ""
		}
		return candidate
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

// LogLevelFromEnv returns the level named by LOG_LEVEL (or
// FORECAST_LOG_LEVEL), defaulting to info.
func LogLevelFromEnv() logrus.Level {
	levelStr := GetEnv(EnvPrefix+"_LOG_LEVEL", GetEnv("LOG_LEVEL", "info"))
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
