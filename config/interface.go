/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads config.json and presets.json (viper-backed, so
// YAML/TOML variants of the same name also work) into the engine's
// SourceSpec values, applying the preset-merge rule: a source's own
// strategy fields always win over its presets' (later-named preset wins
// over an earlier one), which in turn win over the file's
// default_strategy, which wins over engine.DefaultStrategy. A source's
// filter patterns, when it has several presets, merge as a whitelist
// union minus a blacklist union across all of them. A source's artifact
// destination is its own dest if set, else the file's shared
// backup_destination_base.
package config

import (
	"github.com/nabbar/golib/engine"
	"github.com/nabbar/golib/file/perm"
)

// StrategyOverride carries optional per-field overrides of engine.Strategy.
// A nil field means "inherit from the next layer down".
type StrategyOverride struct {
	RetentionDays              *int   `mapstructure:"retention_days"`
	MaxVersionsPerFile         *int   `mapstructure:"max_versions_per_file"`
	CompressionEnabled         *bool  `mapstructure:"compression_enabled"`
	CompressionLevel           *int   `mapstructure:"compression_level"`
	CompressionMinBytes        *int64 `mapstructure:"compression_min_bytes"`
	MaxFileBytes               *int64 `mapstructure:"max_file_bytes"`
	DebounceSeconds            *int   `mapstructure:"debounce_seconds"`
	MaxRetries                 *int   `mapstructure:"max_retries"`
	InitialRetryBackoffSeconds *int   `mapstructure:"initial_retry_backoff_seconds"`

	// IncrementalEnabled, FullBackupInterval and DeltaRatioThreshold are
	// accepted for forward compatibility with a future incremental-backup
	// mode. They are parsed and range-validated but otherwise inert.
	IncrementalEnabled  *bool    `mapstructure:"incremental_enabled"`
	FullBackupInterval  *int     `mapstructure:"full_backup_interval"`
	DeltaRatioThreshold *float64 `mapstructure:"delta_ratio_threshold"`
}

// Preset is a named, reusable strategy (and optional filter) that a source
// can opt into by name.
type Preset struct {
	Strategy       StrategyOverride `mapstructure:"strategy"`
	FilterMode     string           `mapstructure:"filter_mode"`
	FilterPatterns []string         `mapstructure:"filter_patterns"`
}

// SourceConfig is one entry of config.json's "sources" array. Dest, when
// set, overrides the file's shared backup_destination_base for this source
// alone. Preset is a deprecated single-preset back-compat field; Presets is
// the current array form and is merged with Preset (if also set).
type SourceConfig struct {
	Path           string           `mapstructure:"path"`
	Dest           string           `mapstructure:"dest"`
	Enabled        bool             `mapstructure:"enabled"`
	Preset         string           `mapstructure:"preset"`
	Presets        []string         `mapstructure:"presets"`
	FilterMode     string           `mapstructure:"filter_mode"`
	FilterPatterns []string         `mapstructure:"filter_patterns"`
	Strategy       StrategyOverride `mapstructure:"strategy"`
}

// LoggingConfig is config.json's optional "logging" block. An empty
// Directory disables the file hook; Level defaults to "info" when empty.
type LoggingConfig struct {
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
	Console   bool   `mapstructure:"console"`
}

// Config is the fully-loaded, still-unresolved content of config.json
// plus presets.json.
type Config struct {
	Sources         []SourceConfig
	DefaultStrategy engine.Strategy
	Presets         map[string]Preset
	// DestinationBase is the shared backup destination root used by any
	// source that does not declare its own Dest.
	DestinationBase string
	Logging         LoggingConfig
	DirPerm         perm.Perm
	FilePerm        perm.Perm
}

// MergePresets resolves a source's preset names into one effective Preset:
// strategies layer in list order (later wins), and filters merge as a
// whitelist union minus a blacklist union - a path passes if its extension
// is in some preset's whitelist and not in any preset's blacklist. If no
// preset declares a whitelist, the result falls back to a plain blacklist
// of the union of every declared blacklist pattern.
func MergePresets(names []string, all map[string]Preset) (Preset, error) {
	return mergePresets(names, all)
}

// Load reads configPath (config.json or equivalent) and, if it exists,
// presetsPath (presets.json), and returns the merged Config.
func Load(configPath string, presetsPath string) (*Config, error) {
	return load(configPath, presetsPath)
}

// ToSourceSpecs resolves every enabled source (preset merged under its own
// overrides, filters resolved, paths ~-expanded) into engine.SourceSpec
// values ready to hand to a supervisor. It returns ErrorNoEnabledSource if
// none resolve.
func (c *Config) ToSourceSpecs() ([]engine.SourceSpec, error) {
	return c.toSourceSpecs()
}
