package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every recognized environment variable.
const EnvPrefix = "TINYEDIT_"

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// envVars maps environment variables onto configuration fields.
var envVars = []struct {
	name  string
	apply func(c *Config, v string) error
}{
	{"TAB_WIDTH", func(c *Config, v string) error { return setInt(&c.Editor.TabWidth, v) }},
	{"TAB_STYLE", func(c *Config, v string) error { c.Editor.TabStyle = v; return nil }},
	{"FIRST_LINE", func(c *Config, v string) error { return setInt(&c.Editor.FirstLineNumber, v) }},
	{"LINE_BREAK", func(c *Config, v string) error { c.Editor.LineBreak = UnescapeLineBreak(v); return nil }},
	{"EDITABLE", func(c *Config, v string) error { return setBool(&c.Editor.Editable, v) }},
	{"CURSOR_STYLE", func(c *Config, v string) error { c.Cursor.Style = v; return nil }},
	{"CURSOR_BLINK", func(c *Config, v string) error { return setBool(&c.Cursor.Blink, v) }},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Logging.Level = v; return nil }},
	{"LOG_FILE", func(c *Config, v string) error { c.Logging.File = v; return nil }},
	{"SCRIPT", func(c *Config, v string) error { c.Plugins.Script = v; return nil }},
}

// EnvNames returns the recognized environment variable names.
func EnvNames() []string {
	out := make([]string, len(envVars))
	for i, e := range envVars {
		out[i] = EnvPrefix + e.name
	}
	return out
}

// ApplyEnv overlays TINYEDIT_* variables onto cfg. Empty values count as
// set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	for _, e := range envVars {
		name := EnvPrefix + e.name
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := e.apply(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer %q", v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", v)
	}
	*dst = b
	return nil
}
