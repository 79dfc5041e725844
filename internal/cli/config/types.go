// Package config loads pipemenu project configuration. The config file is
// also the project marker: the directory containing pipemenu.yaml is the
// addressing root every document path resolves against.
package config

import (
	"fmt"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/apps"
	"github.com/stagecraft-labs/pipemenu/internal/menu"
)

// Menu title forms; the short form is for hosts with crowded menu bars.
const (
	LongMenuName  = "Pipeline Tracker"
	ShortMenuName = "PT"
)

// CurrentConfigVersion is the newest config schema this build understands.
const CurrentConfigVersion = 1

// Config is the full project configuration.
type Config struct {
	ConfigVersion int    `koanf:"config_version"`
	Project       string `koanf:"project"`
	TrackerURL    string `koanf:"tracker_url"`

	UseShortMenuName       bool `koanf:"use_short_menu_name"`
	AutomaticContextSwitch bool `koanf:"automatic_context_switch"`
	DedupeFavourites       bool `koanf:"dedupe_favourites"`

	// DocumentExtensions lists the file extensions treated as documents by
	// the watcher, e.g. [".mg"].
	DocumentExtensions []string `koanf:"document_extensions"`

	// State is the history database path; empty disables history.
	State string `koanf:"state"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`

	Locations  []address.Location `koanf:"locations"`
	Favourites []menu.Favourite   `koanf:"favourites"`
	Apps       []apps.AppConfig   `koanf:"apps"`
}

// MenuTitle returns the configured menu title form.
func (c *Config) MenuTitle() string {
	if c.UseShortMenuName {
		return ShortMenuName
	}
	return LongMenuName
}

// ProjectSlice returns the part of the configuration the context resolver
// consumes.
func (c *Config) ProjectSlice() address.Project {
	return address.Project{Name: c.Project, Locations: c.Locations}
}

// Validate checks the loaded configuration for static errors.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("config: project name is required")
	}
	if c.ConfigVersion > CurrentConfigVersion {
		return fmt.Errorf("config: config_version %d is newer than the supported version %d; upgrade pipemenu",
			c.ConfigVersion, CurrentConfigVersion)
	}
	for _, app := range c.Apps {
		if app.Instance == "" {
			return fmt.Errorf("config: app with display name %q has no instance name", app.DisplayName)
		}
		for _, cmd := range app.Commands {
			if !cmd.Action.Kind.Valid() {
				return fmt.Errorf("config: command %q of app %q has unknown action kind %q",
					cmd.Name, app.Instance, cmd.Action.Kind)
			}
		}
	}
	for _, loc := range c.Locations {
		if loc.Type == "" || loc.Pattern == "" {
			return fmt.Errorf("config: locations need both a type and a pattern")
		}
	}
	return nil
}
