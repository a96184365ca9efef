// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects the configuration source and carries overrides
	// from command-line flags, which win over the file and the environment.
	LoadOptions struct {
		// ConfigFilePath loads this file instead of searching for one.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
		// Verbose forces ui.verbose on.
		Verbose bool
		// StateDir replaces state_dir when set.
		StateDir string
	}

	// Provider loads the effective configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// NewProvider returns a Provider that reads config.cue, applies ARGTREE_
// environment variables and then the overrides in LoadOptions.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := LoadWithSource(ctx, opts)
	return cfg, err
}

// applyOverrides copies flag overrides from opts into cfg.
func applyOverrides(cfg *Config, opts LoadOptions) {
	if opts.Verbose {
		cfg.UI.Verbose = true
	}
	if opts.StateDir != "" {
		cfg.StateDir = opts.StateDir
	}
}
