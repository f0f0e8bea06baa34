package trackertest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	defaultIssueStatusName = "New"
	doneStatusName         = "Done"
	baseURL                = "https://issues.example.com/browse/"
)

var (
	// FixedTime is the clock used for created, updated and comment timestamps.
	FixedTime = time.Date(2024, time.January, 2, 15, 4, 0, 0, time.UTC)

	newStatus  = tracker.Status{Name: defaultIssueStatusName, Category: "To Do", CategoryColor: "blue-gray"}
	doneStatus = tracker.Status{Name: doneStatusName, Category: "Done", CategoryColor: "green"}
)

// Call records one backend method invocation.
type Call struct {
	Method    string
	Arguments []string
}

// Project is an in-memory tracker.Project. It is not safe for concurrent use.
type Project struct {
	key           string
	currentUser   string
	sequence      *Sequence
	issues        map[string]*tracker.Issue
	order         []string
	transitions   map[string][]tracker.Transition
	states        []tracker.Status
	issueTypes    []tracker.IssueType
	linkTypes     []tracker.LinkType
	queries       map[string][]string
	userData      map[string]any
	closeFailures map[string]struct{}
	commentSerial int

	// Calls lists every backend method invoked, in order.
	Calls []Call
}

var _ tracker.Project = (*Project)(nil)

// NewProject creates an empty project whose new issues take keys from sequence.
func NewProject(key string, sequence *Sequence) *Project {
	if sequence == nil {
		sequence = NewSequence(key, 1)
	}
	return &Project{
		key:           key,
		currentUser:   "porkchop",
		sequence:      sequence,
		issues:        map[string]*tracker.Issue{},
		transitions:   map[string][]tracker.Transition{},
		queries:       map[string][]string{},
		userData:      map[string]any{},
		closeFailures: map[string]struct{}{},
		states:        []tracker.Status{newStatus, {Name: "In Progress", Category: "In Progress", CategoryColor: "yellow"}, doneStatus},
		issueTypes:    []tracker.IssueType{{Name: "Bug"}, {Name: "Task"}, {Name: "Sub-task", Subtask: true}},
		linkTypes:     []tracker.LinkType{{ID: "1", Name: "Blocks", Inward: "is blocked by", Outward: "blocks"}},
	}
}

// AddIssue stores a copy of issue, filling in the permalink when absent.
func (project *Project) AddIssue(issue tracker.Issue) {
	stored := issue
	if stored.URL == "" {
		stored.URL = baseURL + stored.Key
	}
	if _, exists := project.issues[stored.Key]; !exists {
		project.order = append(project.order, stored.Key)
	}
	project.issues[stored.Key] = &stored
}

// SetTransitions defines the transitions reported for key.
func (project *Project) SetTransitions(key string, transitions []tracker.Transition) {
	project.transitions[key] = transitions
}

// SetQuery maps a raw query string to the keys it returns.
func (project *Project) SetQuery(query string, keys ...string) {
	project.queries[query] = keys
}

// FailClose makes Close report failure for key.
func (project *Project) FailClose(key string) {
	project.closeFailures[key] = struct{}{}
}

// SetCurrentUser changes the account name that "me" resolves to.
func (project *Project) SetCurrentUser(name string) {
	project.currentUser = name
}

// Stored returns the current state of an issue, or nil.
func (project *Project) Stored(key string) *tracker.Issue {
	return project.issues[key]
}

// CallCount counts recorded invocations of method.
func (project *Project) CallCount(method string) int {
	count := 0
	for _, call := range project.Calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

func (project *Project) record(method string, arguments ...string) {
	project.Calls = append(project.Calls, Call{Method: method, Arguments: arguments})
}

func (project *Project) lookup(key string) (*tracker.Issue, error) {
	issue, exists := project.issues[strings.ToUpper(key)]
	if !exists {
		return nil, tracker.NewNotFound(key)
	}
	return issue, nil
}

func (project *Project) ordered(match func(issue *tracker.Issue) bool) []tracker.Issue {
	var result []tracker.Issue
	for _, key := range project.order {
		issue := project.issues[key]
		if match(issue) {
			result = append(result, *issue)
		}
	}
	return result
}

// Key returns the project key.
func (project *Project) Key() string {
	return project.key
}

// Issue returns a copy of the stored issue.
func (project *Project) Issue(key string) (*tracker.Issue, error) {
	project.record("Issue", key)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return nil, lookupError
	}
	copied := *issue
	return &copied, nil
}

// List filters by assignee: "" for everyone, "me", "none", or an account name.
func (project *Project) List(userID string) ([]tracker.Issue, error) {
	project.record("List", userID)
	return project.ordered(func(issue *tracker.Issue) bool {
		switch userID {
		case "":
			return true
		case tracker.UserUnassigned:
			return issue.Assignee == nil
		case tracker.UserCurrent:
			return issue.Assignee != nil && issue.Assignee.Name == project.currentUser
		default:
			return issue.Assignee != nil && (issue.Assignee.Name == userID || issue.Assignee.Email == userID)
		}
	}), nil
}

// Search matches text against summaries and descriptions, case-insensitively.
func (project *Project) Search(text string) ([]tracker.Issue, error) {
	project.record("Search", text)
	needle := strings.ToLower(text)
	return project.ordered(func(issue *tracker.Issue) bool {
		return strings.Contains(strings.ToLower(issue.Summary), needle) ||
			strings.Contains(strings.ToLower(issue.Description), needle)
	}), nil
}

// SearchIssues returns the keys registered with SetQuery for query.
func (project *Project) SearchIssues(query string) ([]tracker.Issue, error) {
	project.record("SearchIssues", query)
	keys := project.queries[query]
	var result []tracker.Issue
	for _, key := range keys {
		if issue, exists := project.issues[key]; exists {
			result = append(result, *issue)
		}
	}
	return result, nil
}

// Move applies the transition whose name or target status matches target.
func (project *Project) Move(key string, target string) (bool, error) {
	project.record("Move", key, target)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return false, lookupError
	}
	wanted := tracker.NormalizeName(target)
	for _, transition := range project.transitions[issue.Key] {
		if tracker.NormalizeName(transition.Name) == wanted || tracker.NormalizeName(transition.To.Name) == wanted {
			issue.Status = transition.To
			issue.Updated = FixedTime
			return true, nil
		}
	}
	return false, nil
}

// Close moves the issue to Done unless FailClose was called for it.
func (project *Project) Close(key string) (bool, error) {
	project.record("Close", key)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return false, lookupError
	}
	if _, failing := project.closeFailures[issue.Key]; failing {
		return false, nil
	}
	issue.Status = doneStatus
	return true, nil
}

// New creates an issue with the next sequence key.
func (project *Project) New(summary string, description string, issueType string) (*tracker.Issue, error) {
	project.record("New", summary, description, issueType)
	issue := tracker.Issue{
		ID:          strconv.Itoa(len(project.order) + 1000),
		Key:         project.sequence.Next(),
		Summary:     summary,
		Description: description,
		Type:        issueType,
		Status:      newStatus,
		Created:     FixedTime,
		Updated:     FixedTime,
	}
	project.AddIssue(issue)
	return project.Issue(issue.Key)
}

// Subtask creates a child issue and lists it on the parent.
func (project *Project) Subtask(parentKey string, summary string, description string) (*tracker.Issue, error) {
	project.record("Subtask", parentKey, summary, description)
	parent, lookupError := project.lookup(parentKey)
	if lookupError != nil {
		return nil, lookupError
	}
	child := tracker.Issue{
		ID:          strconv.Itoa(len(project.order) + 1000),
		Key:         project.sequence.Next(),
		Summary:     summary,
		Description: description,
		Type:        "Sub-task",
		Status:      newStatus,
		Created:     FixedTime,
		Updated:     FixedTime,
		Parent:      parent.Key,
	}
	project.AddIssue(child)
	parent.Subtasks = append(parent.Subtasks, tracker.Subtask{Key: child.Key, Status: child.Status, Summary: child.Summary})
	return project.Issue(child.Key)
}

// Link connects two issues using the link type whose phrasing matches relation.
func (project *Project) Link(leftKey string, rightKey string, relation string) error {
	project.record("Link", leftKey, rightKey, relation)
	left, leftError := project.lookup(leftKey)
	if leftError != nil {
		return leftError
	}
	right, rightError := project.lookup(rightKey)
	if rightError != nil {
		return rightError
	}
	wanted := tracker.NormalizeName(relation)
	for _, linkType := range project.linkTypes {
		leftDirection := tracker.LinkOutward
		switch wanted {
		case tracker.NormalizeName(linkType.Outward), tracker.NormalizeName(linkType.Name):
		case tracker.NormalizeName(linkType.Inward):
			leftDirection = tracker.LinkInward
		default:
			continue
		}
		rightDirection := tracker.LinkInward
		if leftDirection == tracker.LinkInward {
			rightDirection = tracker.LinkOutward
		}
		left.Links = append(left.Links, newLink(linkType, leftDirection, right))
		right.Links = append(right.Links, newLink(linkType, rightDirection, left))
		return nil
	}
	return fmt.Errorf("no link type matches %q", relation)
}

func newLink(linkType tracker.LinkType, direction tracker.LinkDirection, target *tracker.Issue) tracker.Link {
	relation := linkType.Outward
	if direction == tracker.LinkInward {
		relation = linkType.Inward
	}
	return tracker.Link{
		Direction:     direction,
		Relation:      relation,
		TargetKey:     target.Key,
		TargetStatus:  target.Status,
		TargetSummary: target.Summary,
	}
}

// Unlink removes every link between the two issues.
func (project *Project) Unlink(leftKey string, rightKey string) error {
	project.record("Unlink", leftKey, rightKey)
	left, leftError := project.lookup(leftKey)
	if leftError != nil {
		return leftError
	}
	right, rightError := project.lookup(rightKey)
	if rightError != nil {
		return rightError
	}
	left.Links = withoutTarget(left.Links, right.Key)
	right.Links = withoutTarget(right.Links, left.Key)
	return nil
}

func withoutTarget(links []tracker.Link, targetKey string) []tracker.Link {
	kept := links[:0]
	for _, link := range links {
		if link.TargetKey != targetKey {
			kept = append(kept, link)
		}
	}
	return kept
}

// Comment appends a comment authored by the current user.
func (project *Project) Comment(key string, text string) error {
	project.record("Comment", key, text)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return lookupError
	}
	project.commentSerial++
	issue.Comments = append(issue.Comments, tracker.Comment{
		ID:      strconv.Itoa(project.commentSerial),
		Author:  tracker.User{Name: project.currentUser},
		Created: FixedTime,
		Updated: FixedTime,
		Body:    text,
	})
	return nil
}

// GetComment returns a handle to one comment of key.
func (project *Project) GetComment(key string, commentID string) (tracker.CommentHandle, error) {
	project.record("GetComment", key, commentID)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return nil, lookupError
	}
	for index := range issue.Comments {
		if issue.Comments[index].ID == commentID {
			return &commentHandle{project: project, issue: issue, commentID: commentID}, nil
		}
	}
	return nil, &tracker.NotFoundError{Kind: "comment", Key: commentID}
}

// Assign sets the assignee; "none" clears it.
func (project *Project) Assign(key string, user string) error {
	project.record("Assign", key, user)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return lookupError
	}
	if user == tracker.UserUnassigned {
		issue.Assignee = nil
		return nil
	}
	issue.Assignee = &tracker.User{Name: user}
	return nil
}

// UpdateIssue applies the non-nil fields of update.
func (project *Project) UpdateIssue(key string, update tracker.IssueUpdate) error {
	project.record("UpdateIssue", key)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return lookupError
	}
	if update.Summary != nil {
		issue.Summary = *update.Summary
	}
	if update.Description != nil {
		issue.Description = *update.Description
	}
	return nil
}

// Transitions returns what SetTransitions stored for key.
func (project *Project) Transitions(key string) ([]tracker.Transition, error) {
	project.record("Transitions", key)
	issue, lookupError := project.lookup(key)
	if lookupError != nil {
		return nil, lookupError
	}
	return project.transitions[issue.Key], nil
}

// States returns the project workflow states.
func (project *Project) States() ([]tracker.Status, error) {
	project.record("States")
	return project.states, nil
}

// IssueTypes returns the project issue types.
func (project *Project) IssueTypes() ([]tracker.IssueType, error) {
	project.record("IssueTypes")
	return project.issueTypes, nil
}

// LinkTypes returns the configured link types.
func (project *Project) LinkTypes() ([]tracker.LinkType, error) {
	project.record("LinkTypes")
	return project.linkTypes, nil
}

// Refresh records the call.
func (project *Project) Refresh() error {
	project.record("Refresh")
	return nil
}

// IndexIssues records the call.
func (project *Project) IndexIssues() error {
	project.record("IndexIssues")
	return nil
}

// UserData returns a value stored with SetUserData.
func (project *Project) UserData(key string) (any, bool) {
	value, present := project.userData[key]
	return value, present
}

// SetUserData stores a value for the invocation.
func (project *Project) SetUserData(key string, value any) {
	project.userData[key] = value
}

// Keys returns the stored issue keys in sorted order.
func (project *Project) Keys() []string {
	keys := append([]string(nil), project.order...)
	sort.Strings(keys)
	return keys
}

type commentHandle struct {
	project   *Project
	issue     *tracker.Issue
	commentID string
}

func (handle *commentHandle) find() *tracker.Comment {
	for index := range handle.issue.Comments {
		if handle.issue.Comments[index].ID == handle.commentID {
			return &handle.issue.Comments[index]
		}
	}
	return nil
}

func (handle *commentHandle) Body() string {
	if comment := handle.find(); comment != nil {
		return comment.Body
	}
	return ""
}

func (handle *commentHandle) Update(body string) error {
	handle.project.record("UpdateComment", handle.issue.Key, handle.commentID)
	comment := handle.find()
	if comment == nil {
		return &tracker.NotFoundError{Kind: "comment", Key: handle.commentID}
	}
	comment.Body = body
	return nil
}

func (handle *commentHandle) Delete() error {
	handle.project.record("DeleteComment", handle.issue.Key, handle.commentID)
	kept := handle.issue.Comments[:0]
	for _, comment := range handle.issue.Comments {
		if comment.ID != handle.commentID {
			kept = append(kept, comment)
		}
	}
	handle.issue.Comments = kept
	return nil
}
