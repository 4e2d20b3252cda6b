package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultLogFile is analyzed when no path is given.
const DefaultLogFile = "/var/log/nginx/access.log"

// FileConfig represents configuration options supplied via YAML.
type FileConfig struct {
	File        string `yaml:"file"`
	Top         *int   `yaml:"top"`
	JSON        *bool  `yaml:"json"`
	ReadTimeout string `yaml:"read_timeout"`
	AgentWidth  *int   `yaml:"agent_width"`
	LogLevel    string `yaml:"log_level"`
}

// RuntimeDefaults carries flag defaults sourced from YAML.
type RuntimeDefaults struct {
	File        string
	Top         int
	JSON        bool
	ReadTimeout time.Duration
	AgentWidth  int
	LogLevel    logrus.Level
}

// detectConfigPath finds the config flag before the flag set exists, since
// the file supplies the flag defaults.
func detectConfigPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// loadFileConfig decodes a YAML config file. Unknown keys are rejected so a
// misspelt option does not quietly keep its default. An empty file is an
// empty config.
func loadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	fh, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func defaultsFromFileConfig(fc FileConfig) (RuntimeDefaults, error) {
	defaults := RuntimeDefaults{
		File:        DefaultLogFile,
		Top:         DefaultTop,
		JSON:        false,
		ReadTimeout: DefaultReadTimeout,
		AgentWidth:  DefaultAgentWidth,
		LogLevel:    logrus.WarnLevel,
	}

	if fc.File != "" {
		defaults.File = fc.File
	}
	if fc.Top != nil {
		if *fc.Top <= 0 {
			return defaults, fmt.Errorf("top must be positive, got %d", *fc.Top)
		}
		defaults.Top = *fc.Top
	}
	if fc.JSON != nil {
		defaults.JSON = *fc.JSON
	}
	if fc.ReadTimeout != "" {
		d, err := time.ParseDuration(fc.ReadTimeout)
		if err != nil {
			return defaults, fmt.Errorf("parse read_timeout: %w", err)
		}
		defaults.ReadTimeout = d
	}
	if fc.AgentWidth != nil {
		defaults.AgentWidth = *fc.AgentWidth
	}
	if fc.LogLevel != "" {
		level, err := logrus.ParseLevel(fc.LogLevel)
		if err != nil {
			return defaults, fmt.Errorf("parse log_level: %w", err)
		}
		defaults.LogLevel = level
	}
	return defaults, nil
}
