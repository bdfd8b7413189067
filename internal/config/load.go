package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/tinyedit/internal/renderer/style"
)

// Load builds a configuration from the defaults, the file at path (if
// path is not empty) and the process environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the file at path onto cfg. Keys absent from the file
// keep their current values. Unknown keys are an error.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Decode(cfg, Format(path), bytes.NewReader(data))
}

// Format returns the format name for path: "toml", "yaml" or "".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// Decode overlays a TOML or YAML document onto cfg.
func Decode(cfg *Config, format string, r io.Reader) error {
	switch format {
	case "toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return fmt.Errorf("parsing toml: %s", strict.String())
			}
			return fmt.Errorf("parsing toml: %w", err)
		}
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if cfg.Theme == nil {
		cfg.Theme = map[string]style.Entry{}
	}
	return nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, format string, cfg Config) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
