package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/jirate/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .jirate.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes ~/.config/jirate/config.yaml.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `jira:
  # Base URL of the Jira server.
  url: https://jira.example.com
  # Personal access token; JIRATE_JIRA_TOKEN overrides it.
  token: ""
  # Project used when -p/--project is not given.
  default_project: ""
  # Named searches for "jirate search -n NAME"; "default" runs when search has no arguments.
  searches:
    default: "assignee = currentUser() AND resolution = Unresolved ORDER BY updated DESC"
  # Custom fields shown by cat. "code" is an expression over the raw value named field,
  # evaluated only when here_there_be_dragons is true.
  custom_fields: []
  #  - id: customfield_10000
  #    name: Story Points
  #    display: true
  #    code: field
  here_there_be_dragons: false
  # auto, always or never.
  color: auto
  # Editor command; falls back to $VISUAL, $EDITOR, then vi.
  editor: ""
  index:
    enabled: true
    path: ""
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		destinationPath = GlobalConfigurationPath(options.HomeDirectory)
		if destinationPath == "" {
			return "", fmt.Errorf("resolve home directory for configuration")
		}
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
