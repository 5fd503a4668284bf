package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Motion analyzer selections.
const (
	AnalyzerSizeDelta = "size_delta"
	AnalyzerPixelDiff = "pixel_diff"
)

var validStrides = []int{10, 15, 20, 30}

// Config holds all application configuration
type Config struct {
	// OutputDir is where the final video and the temp_clips working
	// directory are created. Empty means the current directory.
	OutputDir string `yaml:"output_dir"`

	Sampling SamplingConfig `yaml:"sampling"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
}

type SamplingConfig struct {
	// StrideSeconds is the gap between sample offsets: 10, 15, 20 or 30.
	StrideSeconds int `yaml:"stride_seconds"`
	// MotionFilter skips offsets classified as fully static.
	MotionFilter bool `yaml:"motion_filter"`
	// MotionAnalyzer selects the classifier: size_delta or pixel_diff.
	MotionAnalyzer string `yaml:"motion_analyzer"`
}

type CleanupConfig struct {
	// KeepTemp preserves the working directory (valid clips only)
	// instead of deleting it after a run.
	KeepTemp bool `yaml:"keep_temp"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
	Threads    int    `yaml:"threads"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if !slices.Contains(validStrides, c.Sampling.StrideSeconds) {
		return fmt.Errorf("invalid stride %ds: must be one of %v", c.Sampling.StrideSeconds, validStrides)
	}
	switch c.Sampling.MotionAnalyzer {
	case AnalyzerSizeDelta, AnalyzerPixelDiff:
	default:
		return fmt.Errorf("invalid motion analyzer %q: must be %s or %s",
			c.Sampling.MotionAnalyzer, AnalyzerSizeDelta, AnalyzerPixelDiff)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: "",
		Sampling: SamplingConfig{
			StrideSeconds:  30,
			MotionFilter:   false,
			MotionAnalyzer: AnalyzerSizeDelta,
		},
		Cleanup: CleanupConfig{
			KeepTemp: false,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
			Threads:    0,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".keyclip", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return Default()
}
