package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var logger *slog.Logger

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// initLogging sets up structured logging to a file under the XDG cache
// directory. The CLI's stdout stays reserved for command output.
func initLogging(levelName string) error {
	level, ok := logLevelMap[strings.ToLower(levelName)]
	if !ok {
		level = slog.LevelWarn
	}

	logDir := cacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logPath := filepath.Join(logDir, "billfold.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
	return nil
}

// appLogger returns the configured logger, falling back to the default
// when a command runs before initLogging (tests, mostly)
func appLogger() *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "billfold")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".cache", "billfold")
}
