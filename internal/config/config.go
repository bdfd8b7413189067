package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/tinyedit/internal/engine/document"
	"github.com/dshills/tinyedit/internal/logging"
	"github.com/dshills/tinyedit/internal/renderer/cursor"
	"github.com/dshills/tinyedit/internal/renderer/style"
)

// Config is the complete configuration.
type Config struct {
	Editor  EditorConfig           `toml:"editor" yaml:"editor"`
	Cursor  CursorConfig           `toml:"cursor" yaml:"cursor"`
	Gutter  GutterConfig           `toml:"gutter" yaml:"gutter"`
	Logging LoggingConfig          `toml:"logging" yaml:"logging"`
	Theme   map[string]style.Entry `toml:"theme" yaml:"theme"`
	Plugins PluginConfig           `toml:"plugins" yaml:"plugins"`
}

// EditorConfig holds per-editor settings.
type EditorConfig struct {
	TabWidth        int    `toml:"tabWidth" yaml:"tabWidth"`
	TabStyle        string `toml:"tabStyle" yaml:"tabStyle"`
	FirstLineNumber int    `toml:"firstLineNumber" yaml:"firstLineNumber"`
	LineBreak       string `toml:"lineBreak" yaml:"lineBreak"`
	Editable        bool   `toml:"editable" yaml:"editable"`
}

// CursorConfig holds cursor drawing settings.
type CursorConfig struct {
	Style      string   `toml:"style" yaml:"style"`
	Blink      bool     `toml:"blink" yaml:"blink"`
	BlinkRate  Duration `toml:"blinkRate" yaml:"blinkRate"`
	ResetDelay Duration `toml:"resetDelay" yaml:"resetDelay"`
}

// GutterConfig holds line-number column settings.
type GutterConfig struct {
	MinWidth int `toml:"minWidth" yaml:"minWidth"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// PluginConfig holds hook script settings.
type PluginConfig struct {
	Script string `toml:"script" yaml:"script"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:        4,
			TabStyle:        "hard",
			FirstLineNumber: 1,
			LineBreak:       "\n",
			Editable:        true,
		},
		Cursor: CursorConfig{
			Style:     "block",
			Blink:     true,
			BlinkRate: Duration(500 * time.Millisecond),
		},
		Gutter:  GutterConfig{MinWidth: 3},
		Logging: LoggingConfig{Level: "info"},
		Theme:   map[string]style.Entry{},
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.Editor.TabWidth < 1 {
		errs = append(errs, &FieldError{Field: "editor.tabWidth", Value: c.Editor.TabWidth, Msg: "must be at least 1"})
	}
	if _, err := document.ParseTabStyle(c.Editor.TabStyle); err != nil || c.Editor.TabStyle == "" {
		errs = append(errs, &FieldError{Field: "editor.tabStyle", Value: c.Editor.TabStyle, Msg: `must be "hard" or "soft"`})
	}
	if c.Editor.LineBreak == "" {
		errs = append(errs, &FieldError{Field: "editor.lineBreak", Value: `""`, Msg: "must not be empty"})
	}
	if _, err := cursor.StyleFromString(c.Cursor.Style); err != nil {
		errs = append(errs, &FieldError{Field: "cursor.style", Value: c.Cursor.Style, Msg: "unknown style"})
	}
	if c.Cursor.BlinkRate < 0 {
		errs = append(errs, &FieldError{Field: "cursor.blinkRate", Value: c.Cursor.BlinkRate, Msg: "must not be negative"})
	}
	if c.Cursor.ResetDelay < 0 {
		errs = append(errs, &FieldError{Field: "cursor.resetDelay", Value: c.Cursor.ResetDelay, Msg: "must not be negative"})
	}
	if c.Gutter.MinWidth < 0 {
		errs = append(errs, &FieldError{Field: "gutter.minWidth", Value: c.Gutter.MinWidth, Msg: "must not be negative"})
	}
	if _, err := style.FromEntries(c.Theme); err != nil {
		errs = append(errs, &FieldError{Field: "theme", Value: len(c.Theme), Msg: err.Error()})
	}
	return errors.Join(errs...)
}

// TabStyle returns the parsed tab style.
func (c Config) TabStyle() document.TabStyle {
	s, err := document.ParseTabStyle(c.Editor.TabStyle)
	if err != nil || s == document.TabUnset {
		return document.TabHard
	}
	return s
}

// CursorRendering returns the cursor drawing configuration.
func (c Config) CursorRendering() cursor.Config {
	s, _ := cursor.StyleFromString(c.Cursor.Style)
	return cursor.Config{
		Style:     s,
		Blink:     c.Cursor.Blink,
		BlinkRate: c.Cursor.BlinkRate.Std(),
	}
}

// ThemeStyles builds the theme.
func (c Config) ThemeStyles() (*style.Theme, error) {
	return style.FromEntries(c.Theme)
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Duration is a time.Duration written as a Go duration string ("500ms").
// Bare integers are read as milliseconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String formats d.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler so that both quoted and bare
// scalars are accepted.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// ParseDuration parses a duration string or a millisecond count.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(v), nil
}

// UnescapeLineBreak turns the escaped forms "\n" and "\r\n" used on the
// command line and in the environment into the characters they name.
func UnescapeLineBreak(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}
