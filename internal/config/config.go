package config

import (
	"encoding/json"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration.
type Config struct {
	Generator Generator `yaml:"generator" json:"generator" mapstructure:"generator"`
	Options   Options   `yaml:"options" json:"options" mapstructure:"options"`
}

// Generator holds the settings that shape generated code.
type Generator struct {
	Indent  string `yaml:"indent" json:"indent" mapstructure:"indent" validate:"required,indent"`
	Prefix  string `yaml:"prefix" json:"prefix" mapstructure:"prefix" validate:"omitempty,goident"`
	Runtime string `yaml:"runtime" json:"runtime" mapstructure:"runtime" validate:"required,goident"`
	Import  string `yaml:"import" json:"import" mapstructure:"import" validate:"required"`
}

// Options represents run options.
type Options struct {
	Include  []string      `yaml:"include" json:"include" mapstructure:"include" validate:"dive,required"`
	Exclude  []string      `yaml:"exclude" json:"exclude" mapstructure:"exclude" validate:"dive,required"`
	Workers  int           `yaml:"workers" json:"workers" mapstructure:"workers" validate:"gte=0"`
	Check    bool          `yaml:"check" json:"check" mapstructure:"check"`
	DryRun   bool          `yaml:"dryRun" json:"dryRun" mapstructure:"dryRun"`
	Watch    bool          `yaml:"watch" json:"watch" mapstructure:"watch"`
	NoLock   bool          `yaml:"noLock" json:"noLock" mapstructure:"noLock"`
	Debounce time.Duration `yaml:"debounce" json:"debounce" mapstructure:"debounce" validate:"gte=0"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Generator: DefaultGenerator(),
		Options:   DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return c.Load(data, strings.ToLower(filepath.Ext(path)))
}

// Load decodes data in the format named by ext and merges it over c.
func (c *Config) Load(data []byte, ext string) error {
	var loaded Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	// Loaded values override defaults
	if err := c.Merge(&loaded); err != nil {
		return err
	}
	return nil
}

// Merge overrides c with every non-zero value of other.
func (c *Config) Merge(other *Config) error {
	if err := mergo.Merge(c, other, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging config: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseIndent turns "tab" or a number of spaces into an indentation unit.
func ParseIndent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "tab" || s == "\t" {
		return "\t", nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 16 {
		return "", fmt.Errorf("indent %q must be \"tab\" or a number of spaces between 1 and 16", s)
	}
	return strings.Repeat(" ", n), nil
}

// ShouldInclude checks if a slash-separated path passes the configured filters.
// match reports whether a pattern matches the path.
func (o *Options) ShouldInclude(path string, match func(pattern, path string) bool) bool {
	// Check include list (if specified, path must match one)
	if len(o.Include) > 0 {
		found := false
		for _, p := range o.Include {
			if match(p, path) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Check exclude list
	for _, p := range o.Exclude {
		if match(p, path) {
			return false
		}
	}

	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("indent", func(fl validator.FieldLevel) bool {
		_, err := ParseIndent(fl.Field().String())
		return err == nil
	})
	return v
}
