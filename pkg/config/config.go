// Package config loads yomideck settings from YAML and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration.
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Deck       DeckConfig       `yaml:"deck"`
	Report     ReportConfig     `yaml:"report"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig points at the JMdict-simplified dataset.
type DictionaryConfig struct {
	Path         string `yaml:"path"          env:"YOMIDECK_DICT_PATH"          env-default:"jmdict-examples-eng.json"`
	AutoDownload bool   `yaml:"auto_download" env:"YOMIDECK_DICT_AUTO_DOWNLOAD" env-default:"false"`
}

// PipelineConfig controls tokenization and filtering.
type PipelineConfig struct {
	IncludeParticles bool   `yaml:"include_particles" env:"YOMIDECK_INCLUDE_PARTICLES" env-default:"false"`
	Workers          int    `yaml:"workers"           env:"YOMIDECK_WORKERS"           env-default:"4"`
	Extractor        string `yaml:"extractor"         env:"YOMIDECK_EXTRACTOR"         env-default:"html"`
	// Normalize applies NFKC to extracted text before the chapter checks.
	Normalize bool `yaml:"normalize" env:"YOMIDECK_NORMALIZE" env-default:"false"`
}

// DeckConfig controls the card model and deck naming.
type DeckConfig struct {
	ModelKey     string `yaml:"model_key"     env:"YOMIDECK_MODEL_KEY"     env-default:"jp_vocab_model_v3_styled"`
	ModelName    string `yaml:"model_name"    env:"YOMIDECK_MODEL_NAME"    env-default:"JP Vocab (Modern)"`
	OrdinalWidth int    `yaml:"ordinal_width" env:"YOMIDECK_ORDINAL_WIDTH" env-default:"2"`
	// OutputDir overrides the default of writing next to the EPUB.
	OutputDir string `yaml:"output_dir" env:"YOMIDECK_OUTPUT_DIR"`
}

// ReportConfig enables the YAML run report.
type ReportConfig struct {
	Path string `yaml:"path" env:"YOMIDECK_REPORT_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode  string `yaml:"mode"  env:"YOMIDECK_LOG_MODE"  env-default:"dev"`
	Level string `yaml:"level" env:"YOMIDECK_LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from path (if non-empty) and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dictionary.Path) == "" {
		return fmt.Errorf("dictionary.path must be set")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be >= 1, got %d", c.Pipeline.Workers)
	}
	switch c.Pipeline.Extractor {
	case "html", "readability":
	default:
		return fmt.Errorf("pipeline.extractor must be html or readability, got %q", c.Pipeline.Extractor)
	}
	if c.Deck.OrdinalWidth < 1 || c.Deck.OrdinalWidth > 6 {
		return fmt.Errorf("deck.ordinal_width must be between 1 and 6, got %d", c.Deck.OrdinalWidth)
	}
	if strings.TrimSpace(c.Deck.ModelKey) == "" {
		return fmt.Errorf("deck.model_key must be set")
	}
	return nil
}
