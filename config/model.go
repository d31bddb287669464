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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/nabbar/golib/engine"
	"github.com/nabbar/golib/file/perm"
)

const (
	defaultDirPerm  = "0755"
	defaultFilePerm = "0644"
)

type fileConfig struct {
	Sources         []SourceConfig   `mapstructure:"sources"`
	DefaultStrategy StrategyOverride `mapstructure:"default_strategy"`
	DestinationBase string           `mapstructure:"backup_destination_base"`
	Logging         LoggingConfig    `mapstructure:"logging"`
	DirPerm         string           `mapstructure:"dir_perm"`
	FilePerm        string           `mapstructure:"file_perm"`
}

func (o StrategyOverride) applyTo(base engine.Strategy) engine.Strategy {
	if o.RetentionDays != nil {
		base.RetentionDays = *o.RetentionDays
	}
	if o.MaxVersionsPerFile != nil {
		base.MaxVersionsPerFile = *o.MaxVersionsPerFile
	}
	if o.CompressionEnabled != nil {
		base.CompressionEnabled = *o.CompressionEnabled
	}
	if o.CompressionLevel != nil {
		base.CompressionLevel = *o.CompressionLevel
	}
	if o.CompressionMinBytes != nil {
		base.CompressionMinBytes = *o.CompressionMinBytes
	}
	if o.MaxFileBytes != nil {
		base.MaxFileBytes = *o.MaxFileBytes
	}
	if o.DebounceSeconds != nil {
		base.DebounceSeconds = *o.DebounceSeconds
	}
	if o.MaxRetries != nil {
		base.MaxRetries = *o.MaxRetries
	}
	if o.InitialRetryBackoffSeconds != nil {
		base.InitialRetryBackoffSeconds = *o.InitialRetryBackoffSeconds
	}
	if o.IncrementalEnabled != nil {
		base.IncrementalEnabled = *o.IncrementalEnabled
	}
	if o.FullBackupInterval != nil {
		base.FullBackupInterval = *o.FullBackupInterval
	}
	if o.DeltaRatioThreshold != nil {
		base.DeltaRatioThreshold = *o.DeltaRatioThreshold
	}
	return base
}

// validateStrategyOverride range-checks the forward-compatible incremental
// fields; every other field is either unconstrained or already typed
// narrowly enough (e.g. CompressionLevel) to be left to the compressor.
func validateStrategyOverride(o StrategyOverride) error {
	if o.FullBackupInterval != nil && *o.FullBackupInterval < 0 {
		return ErrorInvalidStrategy.Error(fmt.Errorf("full_backup_interval must be >= 0, got %d", *o.FullBackupInterval))
	}
	if o.DeltaRatioThreshold != nil && (*o.DeltaRatioThreshold < 0 || *o.DeltaRatioThreshold > 1) {
		return ErrorInvalidStrategy.Error(fmt.Errorf("delta_ratio_threshold must be within [0,1], got %f", *o.DeltaRatioThreshold))
	}
	return nil
}

func load(configPath string, presetsPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorConfigRead.Error(err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, ErrorConfigParse.Error(err)
	}

	if !v.IsSet("logging.console") {
		fc.Logging.Console = true
	}
	if fc.Logging.Level == "" {
		fc.Logging.Level = "info"
	}

	presets := make(map[string]Preset)

	if presetsPath != "" {
		if _, err := os.Stat(presetsPath); err == nil {
			pv := viper.New()
			pv.SetConfigFile(presetsPath)

			if err = pv.ReadInConfig(); err != nil {
				return nil, ErrorConfigRead.Error(err)
			}

			if err = pv.Unmarshal(&presets); err != nil {
				return nil, ErrorConfigParse.Error(err)
			}
		}
	}

	dirPermStr := fc.DirPerm
	if dirPermStr == "" {
		dirPermStr = defaultDirPerm
	}

	filePermStr := fc.FilePerm
	if filePermStr == "" {
		filePermStr = defaultFilePerm
	}

	dirPerm, err := perm.Parse(dirPermStr)
	if err != nil {
		return nil, ErrorConfigParse.Error(err)
	}

	filePerm, err := perm.Parse(filePermStr)
	if err != nil {
		return nil, ErrorConfigParse.Error(err)
	}

	if err = validateStrategyOverride(fc.DefaultStrategy); err != nil {
		return nil, err
	}

	return &Config{
		Sources:         fc.Sources,
		DefaultStrategy: fc.DefaultStrategy.applyTo(engine.DefaultStrategy()),
		Presets:         presets,
		DestinationBase: fc.DestinationBase,
		Logging:         fc.Logging,
		DirPerm:         dirPerm,
		FilePerm:        filePerm,
	}, nil
}

func mergeStrategyOverride(dst, src StrategyOverride) StrategyOverride {
	if src.RetentionDays != nil {
		dst.RetentionDays = src.RetentionDays
	}
	if src.MaxVersionsPerFile != nil {
		dst.MaxVersionsPerFile = src.MaxVersionsPerFile
	}
	if src.CompressionEnabled != nil {
		dst.CompressionEnabled = src.CompressionEnabled
	}
	if src.CompressionLevel != nil {
		dst.CompressionLevel = src.CompressionLevel
	}
	if src.CompressionMinBytes != nil {
		dst.CompressionMinBytes = src.CompressionMinBytes
	}
	if src.MaxFileBytes != nil {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.DebounceSeconds != nil {
		dst.DebounceSeconds = src.DebounceSeconds
	}
	if src.MaxRetries != nil {
		dst.MaxRetries = src.MaxRetries
	}
	if src.InitialRetryBackoffSeconds != nil {
		dst.InitialRetryBackoffSeconds = src.InitialRetryBackoffSeconds
	}
	if src.IncrementalEnabled != nil {
		dst.IncrementalEnabled = src.IncrementalEnabled
	}
	if src.FullBackupInterval != nil {
		dst.FullBackupInterval = src.FullBackupInterval
	}
	if src.DeltaRatioThreshold != nil {
		dst.DeltaRatioThreshold = src.DeltaRatioThreshold
	}
	return dst
}

func unionPatterns(existing []string, add []string) []string {
	seen := make(map[string]bool, len(existing))
	out := append([]string{}, existing...)
	for _, p := range existing {
		seen[strings.ToLower(p)] = true
	}
	for _, p := range add {
		k := strings.ToLower(p)
		if !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}

func subtractPatterns(from []string, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, p := range remove {
		drop[strings.ToLower(p)] = true
	}

	out := make([]string, 0, len(from))
	for _, p := range from {
		if !drop[strings.ToLower(p)] {
			out = append(out, p)
		}
	}
	return out
}

func mergePresets(names []string, all map[string]Preset) (Preset, error) {
	var (
		whitelist []string
		blacklist []string
		strategy  StrategyOverride
	)

	for _, name := range names {
		p, ok := all[name]
		if !ok {
			return Preset{}, ErrorPresetNotFound.Error(fmt.Errorf("preset %q", name))
		}

		strategy = mergeStrategyOverride(strategy, p.Strategy)

		switch p.FilterMode {
		case "whitelist":
			whitelist = unionPatterns(whitelist, p.FilterPatterns)
		case "blacklist":
			blacklist = unionPatterns(blacklist, p.FilterPatterns)
		}
	}

	merged := Preset{Strategy: strategy}

	switch {
	case len(whitelist) > 0:
		merged.FilterMode = "whitelist"
		merged.FilterPatterns = subtractPatterns(whitelist, blacklist)
	case len(blacklist) > 0:
		merged.FilterMode = "blacklist"
		merged.FilterPatterns = blacklist
	}

	return merged, nil
}

func parseFilterMode(s string) engine.FilterMode {
	switch s {
	case "whitelist":
		return engine.FilterWhitelist
	case "blacklist":
		return engine.FilterBlacklist
	default:
		return engine.FilterNone
	}
}

func (c *Config) toSourceSpecs() ([]engine.SourceSpec, error) {
	var specs []engine.SourceSpec

	for _, sc := range c.Sources {
		if !sc.Enabled {
			continue
		}

		if err := validateStrategyOverride(sc.Strategy); err != nil {
			return nil, err
		}

		strategy := c.DefaultStrategy

		filterMode := sc.FilterMode
		filterPatterns := sc.FilterPatterns

		names := sc.Presets
		if sc.Preset != "" {
			names = append(append([]string{}, names...), sc.Preset)
		}

		if len(names) > 0 {
			merged, err := MergePresets(names, c.Presets)
			if err != nil {
				return nil, err
			}

			if err = validateStrategyOverride(merged.Strategy); err != nil {
				return nil, err
			}

			if sc.FilterMode != "" && merged.FilterMode != "" {
				return nil, ErrorFilterConflict.Error(fmt.Errorf("source %q declares its own filter and its presets also declare one", sc.Path))
			}

			if filterMode == "" {
				filterMode = merged.FilterMode
				filterPatterns = merged.FilterPatterns
			}

			strategy = merged.Strategy.applyTo(strategy)
		}

		strategy = sc.Strategy.applyTo(strategy)

		root, err := homedir.Expand(sc.Path)
		if err != nil {
			root = sc.Path
		}

		rawDest := sc.Dest
		if rawDest == "" {
			rawDest = c.DestinationBase
		}
		if rawDest == "" {
			return nil, ErrorMissingDestination.Error(fmt.Errorf("source %q", sc.Path))
		}

		dest, err := homedir.Expand(rawDest)
		if err != nil {
			dest = rawDest
		}

		if _, err = os.Stat(root); err != nil {
			continue
		}

		specs = append(specs, engine.SourceSpec{
			Root:     root,
			DestBase: dest,
			Filter:   engine.Filter{Mode: parseFilterMode(filterMode), Patterns: filterPatterns},
			Strategy: strategy,
		})
	}

	if len(specs) == 0 {
		return nil, ErrorNoEnabledSource.Error(fmt.Errorf("no enabled source with an existing root"))
	}

	return specs, nil
}
