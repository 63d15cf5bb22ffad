package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/MaaXYZ/MaaCube/agent/go-service/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger sends logs to stderr and to <LogDir>/go-service.log.
func initLogger(cfg config.Config) (*os.File, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level())

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(cfg.LogDir, "go-service.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	var w io.Writer = zerolog.MultiLevelWriter(console, f)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return f, nil
}
