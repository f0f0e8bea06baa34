// Package tracker defines the issue model rendered by jirate and the project
// collaborator every command handler talks to.
package tracker

import (
	"fmt"
	"time"
)

// LinkDirection tells which side of a link the target issue sits on.
type LinkDirection int

const (
	// LinkOutward means the current issue points at the target ("blocks TEST-2").
	LinkOutward LinkDirection = iota
	// LinkInward means the target points at the current issue ("is blocked by TEST-2").
	LinkInward
)

// Status is a workflow state. Category fields are used only for coloring.
type Status struct {
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	CategoryColor string `yaml:"color"`
}

// User identifies a person in the tracker.
type User struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
}

// Link is one issue link as seen from the issue that owns it.
type Link struct {
	ID            string        `yaml:"id"`
	Direction     LinkDirection `yaml:"direction"`
	Relation      string        `yaml:"relation"`
	TargetKey     string        `yaml:"target_key"`
	TargetStatus  Status        `yaml:"target_status"`
	TargetSummary string        `yaml:"target_summary"`
}

// Subtask is a child issue summary.
type Subtask struct {
	Key     string `yaml:"key"`
	Status  Status `yaml:"status"`
	Summary string `yaml:"summary"`
}

// Comment is one comment in collaborator order.
type Comment struct {
	ID      string    `yaml:"id"`
	Author  User      `yaml:"author"`
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
	Body    string    `yaml:"body"`
}

// Issue is the read-only ticket snapshot handed to handlers and the presenter.
type Issue struct {
	ID           string         `yaml:"id"`
	Key          string         `yaml:"key"`
	Summary      string         `yaml:"summary"`
	Description  string         `yaml:"description"`
	Type         string         `yaml:"type"`
	Priority     string         `yaml:"priority"`
	Status       Status         `yaml:"status"`
	Created      time.Time      `yaml:"created"`
	Updated      time.Time      `yaml:"updated"`
	Parent       string         `yaml:"parent"`
	Creator      *User          `yaml:"creator"`
	Reporter     *User          `yaml:"reporter"`
	Assignee     *User          `yaml:"assignee"`
	Labels       []string       `yaml:"labels"`
	Links        []Link         `yaml:"links"`
	Subtasks     []Subtask      `yaml:"subtasks"`
	Comments     []Comment      `yaml:"comments"`
	CustomFields map[string]any `yaml:"custom_fields"`
	URL          string         `yaml:"url"`
}

// Permalink returns the browser URL of the issue.
func (issue Issue) Permalink() string {
	return issue.URL
}

// CustomField returns the raw value of a custom field and whether the issue carries it.
func (issue Issue) CustomField(fieldID string) (any, bool) {
	if issue.CustomFields == nil {
		return nil, false
	}
	value, present := issue.CustomFields[fieldID]
	return value, present
}

// Transition is a move available from the issue's current status.
type Transition struct {
	ID   string
	Name string
	To   Status
}

// LinkType is a relation category with distinct phrasing per direction.
type LinkType struct {
	ID      string
	Name    string
	Inward  string
	Outward string
}

// IssueType is a project issue type.
type IssueType struct {
	Name    string
	Subtask bool
}

// IssueUpdate carries the fields an edit changes; nil fields are left alone.
type IssueUpdate struct {
	Summary     *string
	Description *string
}

// Empty reports whether the update changes nothing.
func (update IssueUpdate) Empty() bool {
	return update.Summary == nil && update.Description == nil
}

// CustomFieldSpec configures how one custom field is displayed.
type CustomFieldSpec struct {
	ID      string `mapstructure:"id"`
	Name    string `mapstructure:"name"`
	Display *bool  `mapstructure:"display"`
	Code    string `mapstructure:"code"`
}

// Visible reports whether the field is displayed. Fields are visible unless display is false.
func (spec CustomFieldSpec) Visible() bool {
	return spec.Display == nil || *spec.Display
}

const (
	linkOutwardText = "outward"
	linkInwardText  = "inward"
)

func (direction LinkDirection) String() string {
	if direction == LinkInward {
		return linkInwardText
	}
	return linkOutwardText
}

// MarshalText encodes the direction as "inward" or "outward".
func (direction LinkDirection) MarshalText() ([]byte, error) {
	return []byte(direction.String()), nil
}

// UnmarshalText accepts "inward" or "outward".
func (direction *LinkDirection) UnmarshalText(text []byte) error {
	switch NormalizeName(string(text)) {
	case linkInwardText:
		*direction = LinkInward
	case linkOutwardText, "":
		*direction = LinkOutward
	default:
		return fmt.Errorf("unknown link direction %q", string(text))
	}
	return nil
}
