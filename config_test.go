// Copyright (c) 2024-2025 CascadeDB Inc. All rights reserved.

package gocascade

import (
	"os"
	path "path/filepath"
	"testing"
)

func writeClientToml(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(path.Join(dir, "client.toml"), []byte(contents), 0600)
	assertNilF(t, err, "cannot write client.toml")
	return dir
}

func TestLoadClientConfig(t *testing.T) {
	dir := writeClientToml(t, "chunk_buffer_threshold = 25\n")
	t.Setenv(cascadeHome, dir)

	cfg, err := LoadClientConfig()
	assertNilF(t, err)
	assertEqualE(t, cfg.ChunkBufferThreshold, 25)
}

func TestLoadClientConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(cascadeHome, t.TempDir())

	cfg, err := LoadClientConfig()
	assertNilF(t, err)
	assertEqualE(t, cfg.ChunkBufferThreshold, defaultChunkBufferThreshold)
	assertEqualE(t, cfg.LogLevel, "")
}

func TestLoadClientConfigAppliesLogLevel(t *testing.T) {
	dir := writeClientToml(t, "log_level = \"warn\"\n")
	t.Setenv(cascadeHome, dir)
	originalLevel := GetLogger().GetLogLevel()
	defer func() {
		_ = GetLogger().SetLogLevel(originalLevel)
	}()

	cfg, err := LoadClientConfig()
	assertNilF(t, err)
	assertEqualE(t, cfg.LogLevel, "warn")
	assertEqualE(t, GetLogger().GetLogLevel(), "warning")
}

func TestLoadClientConfigRejectsUnknownLogLevel(t *testing.T) {
	dir := writeClientToml(t, "log_level = \"shout\"\n")
	t.Setenv(cascadeHome, dir)

	_, err := LoadClientConfig()
	assertNotNilF(t, err)
}

func TestLoadClientConfigMalformedToml(t *testing.T) {
	dir := writeClientToml(t, "chunk_buffer_threshold = [not toml")
	t.Setenv(cascadeHome, dir)

	_, err := LoadClientConfig()
	assertNotNilF(t, err)
}

func TestGetTomlFilePath(t *testing.T) {
	dir, err := getTomlFilePath("")
	assertNilF(t, err)
	homeDir, err := os.UserHomeDir()
	assertNilF(t, err)
	assertEqualE(t, dir, path.Join(homeDir, ".cascadedb"))

	location, err := getTomlFilePath("/opt/cascade")
	assertNilF(t, err)
	assertEqualE(t, location, path.Join("/opt", "cascade"))
}

func TestResolveChunkBufferThreshold(t *testing.T) {
	testcases := []struct {
		name string
		cfg  *ClientConfig
		want int
	}{
		{"nil config", nil, defaultChunkBufferThreshold},
		{"zero", &ClientConfig{}, defaultChunkBufferThreshold},
		{"negative", &ClientConfig{ChunkBufferThreshold: -3}, defaultChunkBufferThreshold},
		{"positive", &ClientConfig{ChunkBufferThreshold: 4}, 4},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assertEqualE(t, resolveChunkBufferThreshold(tc.cfg), tc.want)
		})
	}
}
