package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source indicates where a configuration value came from.
type Source string

// Configuration source constants.
const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault Source = "default"

	// SourceGlobal indicates the value came from
	// ~/.config/voicememo/config.yaml.
	SourceGlobal Source = "global"

	// SourceLocal indicates the value came from .voicememo.yaml in the
	// working directory.
	SourceLocal Source = "local"

	// SourceEnv indicates the value came from an environment variable.
	SourceEnv Source = "env"
)

// EnvPrefix is prepended to upper-cased key names for environment
// variable lookup: key "api_key" maps to VOICEMEMO_API_KEY.
const EnvPrefix = "VOICEMEMO_"

// GlobalConfigDir is the directory under ~/.config/ holding the global
// config file.
const GlobalConfigDir = "voicememo"

// LocalConfigName is the filename for local config in the working
// directory.
const LocalConfigName = ".voicememo.yaml"

// Resolver handles hierarchical configuration resolution.
type Resolver struct {
	defaults   map[string]string
	globalPath string
	localPath  string
	errWriter  io.Writer

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a resolver with the standard paths.
func NewResolver() *Resolver {
	r := &Resolver{
		defaults:  Defaults(),
		errWriter: os.Stderr,
	}
	if home, err := os.UserHomeDir(); err == nil {
		r.globalPath = filepath.Join(home, ".config", GlobalConfigDir, "config.yaml")
	}
	if wd, err := os.Getwd(); err == nil {
		r.localPath = filepath.Join(wd, LocalConfigName)
	}
	return r
}

// NewResolverWithPaths creates a resolver with explicit global and local
// paths. This is useful for testing.
func NewResolverWithPaths(globalPath, localPath string) *Resolver {
	return &Resolver{
		defaults:   Defaults(),
		globalPath: globalPath,
		localPath:  localPath,
		errWriter:  os.Stderr,
	}
}

// warn adds a warning and optionally prints it.
func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.errWriter != nil {
		fmt.Fprintf(r.errWriter, "Warning: %s\n", msg)
	}
}

// Resolved holds the final merged configuration.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if not set.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// Keys returns all configuration keys.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// Resolve builds the final config by merging all sources.
// Priority (highest to lowest): env > local > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	for key, value := range r.defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}

	r.applyFile(cfg, r.globalPath, SourceGlobal)
	r.applyFile(cfg, r.localPath, SourceLocal)
	r.applyEnv(cfg)

	return cfg
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // File doesn't exist - not an error
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if _, known := r.defaults[key]; !known {
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = source
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	for key := range r.defaults {
		envKey := EnvPrefix + strings.ToUpper(key)
		if value := os.Getenv(envKey); value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceEnv
		}
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return ""
	}
}
