// Package config loads stepkit configuration with the usual layering:
// flags > environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the effective settings for one invocation.
type Config struct {
	// Precision is the significant-digit count for reals that carry no
	// source text; 0 means minimal-digit rendering.
	Precision int
	// StrictTypes makes check report entity type names the registry does
	// not know.
	StrictTypes bool
	// Verbose enables debug logging.
	Verbose bool
}

// Defaults.
const (
	DefaultPrecision = 0
)

var configFileUsed string

// findConfigFile picks the config file: an explicit path wins, otherwise
// stepkit.yaml / stepkit.yml in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"stepkit.yaml", "stepkit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ConfigFileUsed returns the path of the config file the last Load read, or
// empty if none was found.
func ConfigFileUsed() string { return configFileUsed }

// Load builds the effective config. cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"precision":    DefaultPrecision,
		"strict_types": false,
		"verbose":      false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, when present.
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment (STEPKIT_STRICT_TYPES -> strict_types).
	if err := k.Load(env.Provider("STEPKIT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "STEPKIT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags override everything, but only the ones explicitly set.
	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{
		Precision:   k.Int("precision"),
		StrictTypes: k.Bool("strict_types"),
		Verbose:     k.Bool("verbose"),
	}
	if cfg.Precision < 0 {
		return nil, fmt.Errorf("precision must be >= 0, got %d", cfg.Precision)
	}
	return cfg, nil
}
