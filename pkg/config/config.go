package config

import (
	"context"
	"time"
)

// Config is the configuration of the context merge engine and its handler
// adapters. It is loaded once by the host and threaded explicitly into the
// components that need it.
type Config struct {
	Normalization NormalizationConfig `koanf:"normalization" validate:"required"`
	Condition     ConditionConfig     `koanf:"condition"     validate:"required"`
	Timer         TimerConfig         `koanf:"timer"`
	Log           LogConfig           `koanf:"log"`
}

// NormalizationConfig controls how payload keys are normalized before merging.
type NormalizationConfig struct {
	KeyPolicy string `koanf:"key_policy" validate:"oneof=camel lower_camel none" env:"NORMALIZATION_KEY_POLICY"`
	MaxDepth  int    `koanf:"max_depth"  validate:"min=1,max=1024"              env:"NORMALIZATION_MAX_DEPTH"`
}

// ConditionConfig controls the expression-based condition evaluator.
type ConditionConfig struct {
	CacheSize int `koanf:"cache_size" validate:"min=1" env:"CONDITION_CACHE_SIZE"`
}

// TimerConfig controls timer schedule parsing.
type TimerConfig struct {
	Timezone string `koanf:"timezone" validate:"iana_timezone" env:"TIMER_TIMEZONE"`
}

// LogConfig controls the package logger.
type LogConfig struct {
	Level     string `koanf:"level"      validate:"oneof=debug info warn error disabled" env:"LOG_LEVEL"`
	JSON      bool   `koanf:"json"                                                        env:"LOG_JSON"`
	AddSource bool   `koanf:"add_source"                                                  env:"LOG_SOURCE"`
}

// Service loads and validates configuration.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceYAML    SourceType = "yaml"
	SourceMap     SourceType = "map"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration using the default service.
func Load(ctx context.Context) (*Config, error) {
	return NewService().Load(ctx)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Normalization: NormalizationConfig{
			KeyPolicy: "camel",
			MaxDepth:  64,
		},
		Condition: ConditionConfig{
			CacheSize: 256,
		},
		Timer: TimerConfig{
			Timezone: "UTC",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
