// Package config loads the cardgen service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrInvalidDimensions = errors.New("invalid card dimensions")
)

// maxConfigSize bounds the YAML input (1MB).
const maxConfigSize = 1 << 20

// Config holds all configuration for card generation.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Assets    AssetsConfig    `yaml:"assets"`
	Output    OutputConfig    `yaml:"output"`
	Card      CardConfig      `yaml:"card"`
	Server    ServerConfig    `yaml:"server"`
}

// TemplatesConfig locates the per-type card templates.
type TemplatesConfig struct {
	Dir string `yaml:"dir"` // one <type>.html file per card type
}

// AssetsConfig locates the logo and seal stores.
type AssetsConfig struct {
	LogosDir    string `yaml:"logosDir"`
	SealsDir    string `yaml:"sealsDir"`
	DefaultLogo string `yaml:"defaultLogo"` // empty = assets.DefaultLogoName
}

// OutputConfig defines where artifacts and the archive are written.
// The directory is exclusively owned by the running generation and purged
// at the start of every run.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// CardConfig defines the rendered card geometry and the per-row timeout.
type CardConfig struct {
	WidthPx           int `yaml:"widthPx"`
	HeightPx          int `yaml:"heightPx"`
	RowTimeoutSeconds int `yaml:"rowTimeoutSeconds"`
}

// RowTimeout returns the per-row timeout as a duration (0 = library default).
func (c CardConfig) RowTimeout() time.Duration {
	return time.Duration(c.RowTimeoutSeconds) * time.Second
}

// ServerConfig defines the upload/progress server options.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	UploadDir string `yaml:"uploadDir"`
}

// DefaultConfig returns a configuration with conventional relative paths.
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{Dir: "templates"},
		Assets: AssetsConfig{
			LogosDir: "assets/logos",
			SealsDir: "assets/seals",
		},
		Output: OutputConfig{Dir: "output"},
		Card: CardConfig{
			WidthPx:           1080,
			HeightPx:          1920,
			RowTimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			UploadDir: "uploads",
		},
	}
}

// Load reads and validates a YAML config file. Unknown fields are
// rejected to catch typos early.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrConfigParse, maxConfigSize)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Card.WidthPx <= 0 || c.Card.HeightPx <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Card.WidthPx, c.Card.HeightPx)
	}
	if c.Card.RowTimeoutSeconds < 0 {
		return fmt.Errorf("card.rowTimeoutSeconds: must not be negative, got %d", c.Card.RowTimeoutSeconds)
	}
	return nil
}
