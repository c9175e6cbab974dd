// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger from an optional YAML file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"
)

// DefaultConfigFile is read when no path is given.
const DefaultConfigFile = "log_config.yaml"

// Config mirrors log_config.yaml.
type Config struct {
	// Level is a logrus level name (default "info").
	Level string `yaml:"level"`
	// Format is "text" or "json" (default "text").
	Format string `yaml:"format"`
	// File, when set, receives log output instead of the default writer.
	File string `yaml:"file"`
}

// LoadConfig reads path. A missing file yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading log config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing log config %s: %w", path, err)
	}
	return cfg, nil
}

// New returns a logger tagged with a fresh run_id. Output goes to cfg.File
// when set, otherwise to w. The returned closer releases the log file.
func New(cfg Config, w io.Writer) (*logrus.Entry, io.Closer, error) {
	l := logrus.New()
	l.Out = w
	var closer io.Closer = nopCloser{}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	l.Level = lvl

	switch cfg.Format {
	case "", "text":
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, nil, fmt.Errorf("log format %q: want text or json", cfg.Format)
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		l.Out = f
		closer = f
	}

	return l.WithField("run_id", uuid.NewString()), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
