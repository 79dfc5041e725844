package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stagecraft-labs/pipemenu/internal/address"
	"github.com/stagecraft-labs/pipemenu/internal/cli/config"
	"github.com/stagecraft-labs/pipemenu/internal/cli/output"
)

// starterConfig mirrors config.Config but with yaml tags and only the
// fields a fresh project wants spelled out.
type starterConfig struct {
	ConfigVersion int    `yaml:"config_version"`
	Project       string `yaml:"project"`
	TrackerURL    string `yaml:"tracker_url,omitempty"`

	UseShortMenuName       bool `yaml:"use_short_menu_name"`
	AutomaticContextSwitch bool `yaml:"automatic_context_switch"`

	DocumentExtensions []string `yaml:"document_extensions"`

	Locations  []starterLocation  `yaml:"locations"`
	Favourites []starterFavourite `yaml:"favourites"`
	Apps       []starterApp       `yaml:"apps"`
}

type starterLocation struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

type starterFavourite struct {
	AppInstance string `yaml:"app_instance"`
	Name        string `yaml:"name"`
}

type starterApp struct {
	Instance    string           `yaml:"instance"`
	DisplayName string           `yaml:"display_name"`
	Commands    []starterCommand `yaml:"commands"`
}

type starterCommand struct {
	Name    string        `yaml:"name"`
	Tooltip string        `yaml:"tooltip,omitempty"`
	Action  starterAction `yaml:"action"`
}

type starterAction struct {
	Kind   string `yaml:"kind"`
	Target string `yaml:"target,omitempty"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Create a starter pipemenu.yaml in the current directory",
		Long: `Write a starter configuration file. The directory it lands in becomes
the addressing root: document paths beneath it resolve to contexts.

The project name defaults to the directory name.`,
		Example: `  pipemenu init
  pipemenu init my-show
  pipemenu init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runInit(cmd, name, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, name string, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if name == "" {
		name = filepath.Base(cwd)
	}

	target := filepath.Join(cwd, address.ConfigFileNames[0])
	if existing, ok := address.ConfigFileIn(cwd); ok && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", existing)
	}

	data, err := yaml.Marshal(starter(name))
	if err != nil {
		return err
	}
	header := []byte("# pipemenu project configuration.\n# This file marks the addressing root: paths under this directory\n# resolve to contexts via the location patterns below.\n")
	if err := os.WriteFile(target, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
	renderer.Success("created %s", target)
	renderer.Dim("edit the locations and apps sections, then try: pipemenu tree")
	return nil
}

func starter(project string) starterConfig {
	return starterConfig{
		ConfigVersion:          config.CurrentConfigVersion,
		Project:                project,
		UseShortMenuName:       false,
		AutomaticContextSwitch: true,
		DocumentExtensions:     []string{".mg"},
		Locations: []starterLocation{
			{Type: "shot", Pattern: "shots/{name}"},
			{Type: "asset", Pattern: "assets/{name}"},
		},
		Favourites: []starterFavourite{
			{AppInstance: "pipeline", Name: "Loader"},
		},
		Apps: []starterApp{
			{
				Instance:    "pipeline",
				DisplayName: "Pipeline",
				Commands: []starterCommand{
					{
						Name:    "Apps/Loader",
						Tooltip: "Load published files into the scene",
						Action:  starterAction{Kind: "log", Target: "loader opened"},
					},
					{
						Name:    "Apps/Publisher",
						Tooltip: "Publish the current scene",
						Action:  starterAction{Kind: "log", Target: "publish started"},
					},
				},
			},
			{
				Instance:    "settings",
				DisplayName: "Settings",
				Commands: []starterCommand{
					{
						Name:   "Project Settings...",
						Action: starterAction{Kind: "open_path", Target: "."},
					},
				},
			},
		},
	}
}
