package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/apps"
)

// envPrefix is the prefix for environment overrides, e.g.
// PIPEMENU_USE_SHORT_MENU_NAME=true.
const envPrefix = "PIPEMENU_"

// configFileUsed tracks the file the last Load call read.
var configFileUsed string

// defaults provides the base configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"config_version":           CurrentConfigVersion,
		"automatic_context_switch": true,
		"document_extensions":      []string{".mg"},
		"output":                   "auto",
	}
}

// findConfigFile locates the config file: an explicit path wins, then the
// marker found by walking up from the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	root, ok := address.FindRoot(cwd)
	if !ok {
		return ""
	}
	path, _ := address.ConfigFileIn(root)
	return path
}

// Load reads configuration in priority order: defaults, config file,
// PIPEMENU_* environment variables, then CLI flags.
func Load(explicit string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	cfgFile := findConfigFile(explicit)
	configFileUsed = cfgFile
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfgFile, err)
		}
	} else if explicit != "" {
		return nil, fmt.Errorf("config file %s not found", explicit)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshal decodes into Config with a hook that normalizes action kinds,
// so "OPEN_PATH" and "open_path" both decode to the same action.
func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				actionKindHook(),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// actionKindHook lower-cases strings decoded into apps.ActionKind.
func actionKindHook() mapstructure.DecodeHookFuncType {
	kindType := reflect.TypeOf(apps.ActionKind(""))
	return func(_, to reflect.Type, data any) (any, error) {
		if to != kindType {
			return data, nil
		}
		if s, ok := data.(string); ok {
			return apps.ActionKind(strings.ToLower(s)), nil
		}
		return data, nil
	}
}

// LoadProjectAt reads the configuration of the project rooted at dir and
// returns the resolver's slice of it. This is what gets injected into the
// address resolver, so resolution can cross into a different project than
// the one the process started in.
func LoadProjectAt(dir string) (address.Project, error) {
	cfgFile, ok := address.ConfigFileIn(dir)
	if !ok {
		return address.Project{}, fmt.Errorf("no project configuration in %s", dir)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
		return address.Project{}, fmt.Errorf("failed to load %s: %w", cfgFile, err)
	}
	cfg, err := unmarshal(k)
	if err != nil {
		return address.Project{}, err
	}
	return cfg.ProjectSlice(), nil
}

// GetConfigFileUsed returns the config file path the last Load call read,
// or "" when only defaults applied.
func GetConfigFileUsed() string {
	return configFileUsed
}

// RootDir returns the project root the last Load call bound to, or "".
func RootDir() string {
	if configFileUsed == "" {
		return ""
	}
	return filepath.Dir(configFileUsed)
}

// DefaultStatePath returns the history database location for a project root.
func DefaultStatePath(rootDir string) string {
	return filepath.Join(rootDir, ".pipemenu", "history.db")
}
