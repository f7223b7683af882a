// Copyright (c) 2022-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"os"
	path "path/filepath"

	toml "github.com/BurntSushi/toml"
)

// defaultChunkBufferThreshold is how many chunks may pile up without a
// checkpoint before the reassembler releases them downstream anyway.
const defaultChunkBufferThreshold = 10

const cascadeHome = "CASCADE_HOME"

// ClientConfig carries tunables for result stream assembly.
type ClientConfig struct {
	// ChunkBufferThreshold bounds the number of chunks held back while
	// waiting for a resume token. Zero or negative selects the default.
	ChunkBufferThreshold int `toml:"chunk_buffer_threshold"`
	// LogLevel, when set, is applied to the package logger on load.
	LogLevel string `toml:"log_level"`
}

// LoadClientConfig returns client configs loaded from the toml file.
// By default, CASCADE_HOME(toml file path) is os.home/.cascadedb. A missing
// file is not an error; the defaults apply.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{ChunkBufferThreshold: defaultChunkBufferThreshold}
	configDir, err := getTomlFilePath(os.Getenv(cascadeHome))
	if err != nil {
		return nil, err
	}
	tomlFilePath := path.Join(configDir, "client.toml")
	if _, err = os.Stat(tomlFilePath); os.IsNotExist(err) {
		logger.Debugf("no client config at %v, using defaults", tomlFilePath)
		return cfg, nil
	}
	if _, err = toml.DecodeFile(tomlFilePath, cfg); err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		if err = logger.SetLogLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func getTomlFilePath(filePath string) (string, error) {
	if len(filePath) != 0 {
		if path.IsAbs(filePath) {
			return filePath, nil
		}
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		filePath = path.Join(homeDir, ".cascadedb")
	}
	absDir, err := path.Abs(filePath)
	if err != nil {
		return "", err
	}
	return absDir, nil
}

// resolveChunkBufferThreshold applies the default when the config is absent
// or carries a non-positive threshold.
func resolveChunkBufferThreshold(cfg *ClientConfig) int {
	if cfg == nil {
		return defaultChunkBufferThreshold
	}
	if cfg.ChunkBufferThreshold <= 0 {
		if cfg.ChunkBufferThreshold < 0 {
			logger.Warnf("invalid value for chunk_buffer_threshold: %v. It should be a positive integer. Defaulting to %v", cfg.ChunkBufferThreshold, defaultChunkBufferThreshold)
		}
		return defaultChunkBufferThreshold
	}
	return cfg.ChunkBufferThreshold
}
