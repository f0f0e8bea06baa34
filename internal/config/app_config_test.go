package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/jirate/internal/tracker"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfiguration(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create configuration directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name          string
		globalContent string
		localContent  string
		explicitPath  string
		expected      JiraConfiguration
	}{
		{
			name:          "local_overrides_global",
			globalContent: "jira:\n  url: https://global.example.com\n  token: global-token\n  default_project: core\n  searches:\n    default: project = CORE\n    mine: assignee = currentUser()\n",
			localContent:  "jira:\n  default_project: web\n  searches:\n    default: project = WEB\n  here_there_be_dragons: true\n",
			expected: JiraConfiguration{
				URL:                "https://global.example.com",
				Token:              "global-token",
				DefaultProject:     "web",
				HereThereBeDragons: boolPointer(true),
				Searches:           map[string]string{"default": "project = WEB", "mine": "assignee = currentUser()"},
			},
		},
		{
			name:          "explicit_path_replaces_local",
			globalContent: "jira:\n  url: https://global.example.com\n",
			localContent:  "jira:\n  token: ignored\n",
			explicitPath:  "custom.yaml",
			expected: JiraConfiguration{
				URL:   "https://global.example.com",
				Token: "custom-token",
			},
		},
		{
			name:         "custom_fields_and_index",
			localContent: "jira:\n  custom_fields:\n    - id: customfield_100\n      name: Tier\n      code: field.value\n    - id: customfield_200\n      name: Hidden\n      display: false\n  index:\n    enabled: false\n    path: /tmp/index.sqlite\n  color: never\n",
			expected: JiraConfiguration{
				CustomFields: []tracker.CustomFieldSpec{
					{ID: "customfield_100", Name: "Tier", Code: "field.value"},
					{ID: "customfield_200", Name: "Hidden", Display: boolPointer(false)},
				},
				Index: IndexConfiguration{Enabled: boolPointer(false), Path: "/tmp/index.sqlite"},
				Color: "never",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeConfiguration(t, GlobalConfigurationPath(homeDirectory), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfiguration(t, filepath.Join(workingDirectory, ".jirate.yaml"), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfiguration(t, filepath.Join(workingDirectory, testCase.explicitPath), "jira:\n  token: custom-token\n")
			}

			configuration, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: testCase.explicitPath,
				HomeDirectory:    homeDirectory,
			})
			if err != nil {
				t.Fatalf("load configuration: %v", err)
			}
			if difference := cmp.Diff(testCase.expected, configuration.Jira); difference != "" {
				t.Fatalf("unexpected configuration (-want +got):\n%s", difference)
			}
		})
	}
}

func TestLoadApplicationConfigurationEnvironmentOverrides(t *testing.T) {
	homeDirectory := t.TempDir()
	workingDirectory := t.TempDir()
	writeConfiguration(t, filepath.Join(workingDirectory, ".jirate.yaml"), "jira:\n  url: https://file.example.com\n  token: file-token\n")
	t.Setenv("JIRATE_JIRA_TOKEN", "environment-token")
	t.Setenv("JIRATE_JIRA_DEFAULT_PROJECT", "ops")

	configuration, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: homeDirectory})
	if err != nil {
		t.Fatalf("load configuration: %v", err)
	}
	if configuration.Jira.Token != "environment-token" {
		t.Fatalf("expected environment token, got %q", configuration.Jira.Token)
	}
	if configuration.Jira.URL != "https://file.example.com" {
		t.Fatalf("expected file URL, got %q", configuration.Jira.URL)
	}
	if configuration.Jira.ProjectKey("") != "OPS" {
		t.Fatalf("expected upper-cased default project, got %q", configuration.Jira.ProjectKey(""))
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		ExplicitFilePath: "absent.yaml",
		HomeDirectory:    t.TempDir(),
	})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration file")
	}
}

func TestValidateReportsMissingKeys(t *testing.T) {
	testCases := []struct {
		name     string
		jira     JiraConfiguration
		expected []string
	}{
		{name: "all_missing", jira: JiraConfiguration{}, expected: []string{"jira.url", "jira.token", "jira.default_project"}},
		{name: "token_missing", jira: JiraConfiguration{URL: "https://jira", DefaultProject: "TEST"}, expected: []string{"jira.token"}},
		{name: "complete", jira: JiraConfiguration{URL: "https://jira", Token: "secret", DefaultProject: "TEST"}},
	}
	for _, testCase := range testCases {
		err := ApplicationConfiguration{Jira: testCase.jira}.Validate()
		if testCase.expected == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", testCase.name, err)
			}
			continue
		}
		var configError *ConfigError
		if !errors.As(err, &configError) {
			t.Fatalf("%s: expected ConfigError, got %v", testCase.name, err)
		}
		if difference := cmp.Diff(testCase.expected, configError.MissingKeys); difference != "" {
			t.Fatalf("%s: unexpected missing keys (-want +got):\n%s", testCase.name, difference)
		}
	}
}

func TestJiraConfigurationHelpers(t *testing.T) {
	jira := JiraConfiguration{
		DefaultProject: "core",
		Searches:       map[string]string{"zeta": "z", "alpha": "a"},
	}
	if jira.ProjectKey("web") != "WEB" {
		t.Fatalf("override must win and be upper-cased")
	}
	if jira.EvaluationEnabled() {
		t.Fatalf("evaluation must be disabled by default")
	}
	if difference := cmp.Diff([]string{"alpha", "zeta"}, jira.SearchNames()); difference != "" {
		t.Fatalf("unexpected search names (-want +got):\n%s", difference)
	}
	if !jira.Index.IndexEnabled() {
		t.Fatalf("index must be enabled by default")
	}
	path, err := IndexConfiguration{Path: "/var/tmp/jirate.sqlite"}.ResolvePath()
	if err != nil || path != "/var/tmp/jirate.sqlite" {
		t.Fatalf("unexpected index path %q, %v", path, err)
	}
}
