// SPDX-License-Identifier: MPL-2.0

// Package config handles argtree's application configuration using Viper with
// CUE as the file format.
//
// Configuration is loaded from ~/.config/argtree/config.cue (XDG on Linux,
// ~/Library/Application Support/argtree/config.cue on macOS,
// %APPDATA%\argtree\config.cue on Windows), falling back to ./config.cue and
// then to defaults. Files are validated against the embedded #Config schema
// in config_schema.cue. Every key can be overridden from the environment
// with the ARGTREE_ prefix, e.g. ARGTREE_UI_THEME=dracula.
package config
