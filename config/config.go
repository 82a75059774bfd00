// Package config provides environment driven configuration for the quillpress API,
// including log level, listen address, JWT secret and database location.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const defaultPort = 3000

// LoadEnv reads KEY=VALUE pairs from the given files (".env" when none are given)
// into the process environment. Variables already set are left untouched and
// missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("QP_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("QP_DEBUG") == "true"
}

// GetPort returns USE_PORT, falling back to 3000 when unset or not a valid port.
func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("USE_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return defaultPort
	}
	return port
}

func GetListen() string {
	return os.Getenv("QP_LISTEN")
}

// GetJWTSecret returns the token signing secret. An empty value is only
// acceptable in debug mode, where the caller generates a throwaway secret.
func GetJWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("QP_DB_FOLDER")
	if dbFolderPath == "" {
		if IsDebug() {
			return "db"
		}
		dbFolderPath = "/var/lib/quillpress"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("QP_LOG_FOLDER")
	if logFolderPath == "" {
		if IsDebug() {
			return "log"
		}
		logFolderPath = "/var/log/quillpress"
	}
	return logFolderPath
}
