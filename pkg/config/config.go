// Package config loads user settings from
// $XDG_CONFIG_HOME/connections/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// Dir is the directory name under XDG_CONFIG_HOME and XDG_STATE_HOME.
	Dir = "connections"
	// File is the config file name.
	File = "config.yaml"
)

// Animation configures the idle float.
type Animation struct {
	Enabled        bool `yaml:"enabled"`
	MaxPeople      int  `yaml:"max_people" validate:"gte=0"`
	MaxConnections int  `yaml:"max_connections" validate:"gte=0"`
	FrameMS        int  `yaml:"frame_ms" validate:"gte=16,lte=1000"`
}

// Canvas sets how many world units one terminal cell covers.
type Canvas struct {
	CellWidth  float64 `yaml:"cell_width" validate:"gt=0"`
	CellHeight float64 `yaml:"cell_height" validate:"gt=0"`
}

// Input configures pointer modifiers.
type Input struct {
	// LinkModifier starts a connection drag from a person.
	LinkModifier string `yaml:"link_modifier" validate:"oneof=shift alt any"`
}

// Config is the user configuration.
type Config struct {
	Language  string    `yaml:"language" validate:"oneof=ru en"`
	SessionDB string    `yaml:"session_db"`
	LogFile   string    `yaml:"log_file"`
	ScanPaths []string  `yaml:"scan_paths"`
	MaxDepth  int       `yaml:"max_depth" validate:"gte=1,lte=10"`
	Animation Animation `yaml:"animation"`
	Canvas    Canvas    `yaml:"canvas"`
	Input     Input     `yaml:"input"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Language:  "ru",
		SessionDB: filepath.Join(stateHome(), Dir, "session.db"),
		LogFile:   filepath.Join(stateHome(), Dir, "connections.log"),
		MaxDepth:  3,
		Animation: Animation{
			Enabled:        true,
			MaxPeople:      900,
			MaxConnections: 1800,
			FrameMS:        33,
		},
		Canvas: Canvas{CellWidth: 10, CellHeight: 20},
		Input:  Input{LinkModifier: "any"},
	}
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(configHome(), Dir, File)
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.SessionDB = expandHome(cfg.SessionDB)
	cfg.LogFile = expandHome(cfg.LogFile)
	for i, p := range cfg.ScanPaths {
		cfg.ScanPaths[i] = expandHome(p)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their yaml names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gte", "gt":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
