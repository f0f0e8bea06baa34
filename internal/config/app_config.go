package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used to find the global file.
	HomeDirectory string
}

// ApplicationConfiguration is the merged content of the global and local files.
type ApplicationConfiguration struct {
	Jira JiraConfiguration `mapstructure:"jira"`
}

// JiraConfiguration holds the connection and display settings.
//
// HereThereBeDragons enables evaluation of custom field "code" expressions.
// Anyone able to edit the configuration file then decides what jirate
// prints for those fields; expressions cannot reach files, network or environment.
type JiraConfiguration struct {
	URL                string                    `mapstructure:"url"`
	Token              string                    `mapstructure:"token"`
	DefaultProject     string                    `mapstructure:"default_project"`
	HereThereBeDragons *bool                     `mapstructure:"here_there_be_dragons"`
	Searches           map[string]string         `mapstructure:"searches"`
	CustomFields       []tracker.CustomFieldSpec `mapstructure:"custom_fields"`
	Index              IndexConfiguration        `mapstructure:"index"`
	Color              string                    `mapstructure:"color"`
	Editor             string                    `mapstructure:"editor"`
}

// IndexConfiguration controls the local issue index.
type IndexConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

const (
	indexDirectoryName = "jirate"

	jiraURLKey            = "jira.url"
	jiraTokenKey          = "jira.token"
	jiraDefaultProjectKey = "jira.default_project"
	jiraColorKey          = "jira.color"
	jiraEditorKey         = "jira.editor"
)

// LoadApplicationConfiguration loads configuration from global and local files
// and applies JIRATE_* environment overrides.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if globalPath := GlobalConfigurationPath(options.HomeDirectory); globalPath != "" {
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	return merged.withEnvironment(), nil
}

// GlobalConfigurationPath returns ~/.config/jirate/config.yaml, or "" when no home directory is known.
func GlobalConfigurationPath(homeDirectory string) string {
	if homeDirectory == "" {
		resolved, err := os.UserHomeDir()
		if err != nil || resolved == "" {
			return ""
		}
		homeDirectory = resolved
	}
	return filepath.Join(homeDirectory, utils.UserConfigRootDirectoryName, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// withEnvironment overlays JIRATE_JIRA_URL, JIRATE_JIRA_TOKEN and the other scalar keys.
func (config ApplicationConfiguration) withEnvironment() ApplicationConfiguration {
	environment := viper.New()
	environment.SetEnvPrefix(utils.EnvironmentPrefix)
	environment.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	environment.AutomaticEnv()

	result := config
	overrides := []struct {
		key    string
		target *string
	}{
		{key: jiraURLKey, target: &result.Jira.URL},
		{key: jiraTokenKey, target: &result.Jira.Token},
		{key: jiraDefaultProjectKey, target: &result.Jira.DefaultProject},
		{key: jiraColorKey, target: &result.Jira.Color},
		{key: jiraEditorKey, target: &result.Jira.Editor},
	}
	for _, override := range overrides {
		if value := environment.GetString(override.key); value != "" {
			*override.target = value
		}
	}
	return result
}

// Validate reports the required keys that are missing.
func (config ApplicationConfiguration) Validate() error {
	var missing []string
	if strings.TrimSpace(config.Jira.URL) == "" {
		missing = append(missing, jiraURLKey)
	}
	if strings.TrimSpace(config.Jira.Token) == "" {
		missing = append(missing, jiraTokenKey)
	}
	if strings.TrimSpace(config.Jira.DefaultProject) == "" {
		missing = append(missing, jiraDefaultProjectKey)
	}
	if len(missing) > 0 {
		return &ConfigError{MissingKeys: missing}
	}
	return nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Jira = result.Jira.merge(override.Jira)
	return result
}

func (config JiraConfiguration) merge(override JiraConfiguration) JiraConfiguration {
	result := config
	if override.URL != "" {
		result.URL = override.URL
	}
	if override.Token != "" {
		result.Token = override.Token
	}
	if override.DefaultProject != "" {
		result.DefaultProject = override.DefaultProject
	}
	if override.HereThereBeDragons != nil {
		result.HereThereBeDragons = cloneBool(override.HereThereBeDragons)
	}
	if len(override.Searches) > 0 {
		searches := make(map[string]string, len(result.Searches)+len(override.Searches))
		for name, query := range result.Searches {
			searches[name] = query
		}
		for name, query := range override.Searches {
			searches[name] = query
		}
		result.Searches = searches
	}
	if len(override.CustomFields) > 0 {
		result.CustomFields = append([]tracker.CustomFieldSpec{}, override.CustomFields...)
	}
	result.Index = result.Index.merge(override.Index)
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Editor != "" {
		result.Editor = override.Editor
	}
	return result
}

func (config IndexConfiguration) merge(override IndexConfiguration) IndexConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Path != "" {
		result.Path = override.Path
	}
	return result
}

// EvaluationEnabled reports whether custom field expressions run.
func (config JiraConfiguration) EvaluationEnabled() bool {
	return config.HereThereBeDragons != nil && *config.HereThereBeDragons
}

// ProjectKey returns the override when set, else the default project, upper-cased.
func (config JiraConfiguration) ProjectKey(override string) string {
	if override != "" {
		return strings.ToUpper(override)
	}
	return strings.ToUpper(config.DefaultProject)
}

// SearchNames lists configured search names in sorted order.
func (config JiraConfiguration) SearchNames() []string {
	names := make([]string, 0, len(config.Searches))
	for name := range config.Searches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndexEnabled reports whether the local index is used. It is on unless disabled.
func (config IndexConfiguration) IndexEnabled() bool {
	return config.Enabled == nil || *config.Enabled
}

// ResolvePath returns the configured index path or the default under the user cache directory.
func (config IndexConfiguration) ResolvePath() (string, error) {
	if config.Path != "" {
		return expandHome(config.Path)
	}
	cacheDirectory, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory for index: %w", err)
	}
	return filepath.Join(cacheDirectory, indexDirectoryName, utils.IndexFileName), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(homeDirectory, strings.TrimPrefix(path, "~")), nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
