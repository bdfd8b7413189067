// Package config loads tinyedit configuration.
//
// Configuration is layered, lowest precedence first:
//
//  1. built-in defaults (Default)
//  2. a configuration file, TOML or YAML by extension (LoadFile)
//  3. TINYEDIT_* environment variables (ApplyEnv)
//  4. command-line flags, applied by the caller
//
// A Watcher reloads the file when it changes on disk.
//
// Example TOML:
//
//	[editor]
//	tabWidth = 4
//	tabStyle = "hard"
//
//	[cursor]
//	style = "bar"
//	blinkRate = "500ms"
//
//	[theme.gutter-inner]
//	fg = "#5c6370"
package config
