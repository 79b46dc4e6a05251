package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func envMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	env := envMap(map[string]string{"RAYTRACER_ENV_FILE": filepath.Join(t.TempDir(), "missing.env")})
	config, err := LoadConfig(nil, env, io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if config != DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", config)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	envFile := writeEnvFile(t, `RAYTRACER_SCENE=sphere-grid
RAYTRACER_WIDTH=64
RAYTRACER_HEIGHT=32
RAYTRACER_SAMPLES=8
S3_BUCKET=from-file
S3_REGION=eu-west-1
`)

	env := envMap(map[string]string{
		"RAYTRACER_ENV_FILE": envFile,
		"RAYTRACER_WIDTH":    "128", // Overrides the file
		"RAYTRACER_SEED":     "7",
		"RAYTRACER_PUBLISH":  "true",
	})

	config, err := LoadConfig([]string{"-samples", "3", "-s3-bucket", "from-flag"}, env, io.Discard)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"scene from file", config.Scene, "sphere-grid"},
		{"width from env", config.Width, 128},
		{"height from file", config.Height, 32},
		{"samples from flag", config.Samples, 3},
		{"seed from env", config.Seed, int64(7)},
		{"publish from env", config.Publish, true},
		{"bucket from flag", config.S3.Bucket, "from-flag"},
		{"region from file", config.S3.Region, "eu-west-1"},
	}
	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.got)
		}
	}
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	tests := map[string]string{
		"RAYTRACER_WIDTH":     "wide",
		"RAYTRACER_SEED":      "1.5",
		"RAYTRACER_THUMBNAIL": "maybe",
	}
	for key, value := range tests {
		env := envMap(map[string]string{
			"RAYTRACER_ENV_FILE": filepath.Join(t.TempDir(), "missing.env"),
			key:                  value,
		})
		if _, err := LoadConfig(nil, env, io.Discard); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s=%s: expected ErrInvalidConfig, got %v", key, value, err)
		}
	}
}

func TestLoadConfig_BadFlag(t *testing.T) {
	env := envMap(map[string]string{"RAYTRACER_ENV_FILE": filepath.Join(t.TempDir(), "missing.env")})
	if _, err := LoadConfig([]string{"-width", "abc"}, env, io.Discard); err == nil {
		t.Error("Expected error for non-numeric -width")
	}
	if _, err := LoadConfig([]string{"-nope"}, env, io.Discard); err == nil {
		t.Error("Expected error for unknown flag")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty scene", func(c *Config) { c.Scene = "" }, false},
		{"negative width", func(c *Config) { c.Width = -1 }, false},
		{"negative samples", func(c *Config) { c.Samples = -4 }, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, false},
		{"zero thumbnail", func(c *Config) { c.Thumbnail = true; c.ThumbnailSize = 0 }, false},
		{"publish without bucket", func(c *Config) { c.Publish = true }, false},
		{"publish with bucket", func(c *Config) { c.Publish = true; c.S3.Bucket = "b" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
