package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the file-backed configuration of the tool.
type Config struct {
	// Addr is the listen address of the web mode.
	Addr string `mapstructure:"addr"`
	// MaxUploadBytes caps carrier uploads in web mode.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
	// ScanLimit and AbortThreshold tune the decoder.
	ScanLimit      int `mapstructure:"scan_limit"`
	AbortThreshold int `mapstructure:"abort_threshold"`
	// ArmorSeed drives the shuffle of armored payloads.
	ArmorSeed int64 `mapstructure:"armor_seed"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig controls the zap logger. With no outputs configured the tool
// runs silent.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Stdout     bool   `mapstructure:"stdout"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// loadConfig resolves the config file path and loads it.
// Path priority:
//  1. Default: ./config.yaml
//  2. Env: STEGO_CONFIG_FILE_PATH
//  3. CLI: --config <path> or --config=<path>
//
// A missing file is only an error when the path was given explicitly.
func loadConfig(args []string) (Config, error) {
	cfg := Config{Addr: ":5000"}

	path := "./config.yaml"
	explicit := false
	if envPath := os.Getenv("STEGO_CONFIG_FILE_PATH"); envPath != "" {
		path = envPath
		explicit = true
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return cfg, fmt.Errorf("missing value after --config")
			}
			path = args[i+1]
			explicit = true
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			if val := strings.TrimPrefix(arg, "--config="); val != "" {
				path = val
				explicit = true
			}
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to load config file %q: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// hasFlag reports whether a bare flag is present in args.
func hasFlag(args []string, name string) bool {
	for _, arg := range args {
		if arg == name {
			return true
		}
	}
	return false
}
