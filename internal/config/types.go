// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/invowk/argtree/pkg/command"
)

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"

	stateDirName = "state"
)

var (
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Theme names the color theme of interactive forms.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	// It wraps ErrInvalidTheme for errors.Is() compatibility.
	InvalidThemeError struct {
		Value Theme
	}

	// Config is the application configuration.
	Config struct {
		// DefaultRunMode is used when the root command declares no run mode.
		DefaultRunMode command.RunMode `json:"default_run_mode" mapstructure:"default_run_mode"`
		// StateDir holds saved namespaces; empty means <config dir>/state.
		StateDir string `json:"state_dir" mapstructure:"state_dir"`
		// UI configures interactive forms and logging.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures interactive forms and logging.
	UIConfig struct {
		// Theme is the form color theme.
		Theme Theme `json:"theme" mapstructure:"theme"`
		// Accessible forces screen-reader friendly prompts.
		Accessible bool `json:"accessible" mapstructure:"accessible"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultRunMode: command.RunModeSmart,
		UI: UIConfig{
			Theme: ThemeDefault,
		},
	}
}

// Error implements the error interface for InvalidThemeError.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// IsValid returns whether the Theme is a known theme. The empty value is
// valid and means ThemeDefault.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case "", ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel and the field errors for errors.Is() and
// errors.As().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DefaultRunMode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Theme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// ResolveStateDir returns StateDir, or the state directory below the config
// directory when StateDir is empty.
func (c *Config) ResolveStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, stateDirName), nil
}
