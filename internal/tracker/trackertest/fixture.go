package trackertest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/temirov/jirate/internal/tracker"
)

type fixtureTransition struct {
	ID   string         `yaml:"id"`
	Name string         `yaml:"name"`
	To   tracker.Status `yaml:"to"`
}

type fixtureLinkType struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Inward  string `yaml:"inward"`
	Outward string `yaml:"outward"`
}

type fixtureIssueType struct {
	Name    string `yaml:"name"`
	Subtask bool   `yaml:"subtask"`
}

// Fixture is the YAML document LoadFixture reads.
type Fixture struct {
	Project     string                         `yaml:"project"`
	CurrentUser string                         `yaml:"current_user"`
	States      []tracker.Status               `yaml:"states"`
	IssueTypes  []fixtureIssueType             `yaml:"issue_types"`
	LinkTypes   []fixtureLinkType              `yaml:"link_types"`
	Issues      []tracker.Issue                `yaml:"issues"`
	Transitions map[string][]fixtureTransition `yaml:"transitions"`
	Queries     map[string][]string            `yaml:"queries"`
	Searches    map[string]string              `yaml:"searches"`
}

// LoadFixture builds a Project from a YAML fixture file.
func LoadFixture(path string, sequence *Sequence) (*Project, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, readError)
	}
	return ParseFixture(content, sequence)
}

// ParseFixture builds a Project from YAML fixture content.
func ParseFixture(content []byte, sequence *Sequence) (*Project, error) {
	var fixture Fixture
	if decodeError := yaml.Unmarshal(content, &fixture); decodeError != nil {
		return nil, fmt.Errorf("decode fixture: %w", decodeError)
	}
	if fixture.Project == "" {
		return nil, fmt.Errorf("fixture is missing the project key")
	}
	project := NewProject(fixture.Project, sequence)
	if fixture.CurrentUser != "" {
		project.SetCurrentUser(fixture.CurrentUser)
	}
	if len(fixture.States) > 0 {
		project.states = fixture.States
	}
	if len(fixture.IssueTypes) > 0 {
		project.issueTypes = nil
		for _, issueType := range fixture.IssueTypes {
			project.issueTypes = append(project.issueTypes, tracker.IssueType{Name: issueType.Name, Subtask: issueType.Subtask})
		}
	}
	if len(fixture.LinkTypes) > 0 {
		project.linkTypes = nil
		for _, linkType := range fixture.LinkTypes {
			project.linkTypes = append(project.linkTypes, tracker.LinkType(linkType))
		}
	}
	for _, issue := range fixture.Issues {
		project.AddIssue(issue)
	}
	for key, transitions := range fixture.Transitions {
		converted := make([]tracker.Transition, 0, len(transitions))
		for _, transition := range transitions {
			converted = append(converted, tracker.Transition(transition))
		}
		project.SetTransitions(key, converted)
	}
	for query, keys := range fixture.Queries {
		project.SetQuery(query, keys...)
	}
	if len(fixture.Searches) > 0 {
		project.SetUserData(tracker.UserDataSearches, fixture.Searches)
	}
	return project, nil
}
