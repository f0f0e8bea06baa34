package jira

import (
	"fmt"
	"net/http"
	"strings"

	jiraapi "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	searchPageSize           = 100
	doneCategoryKey          = "done"
	defaultSubtaskTypeName   = "Sub-task"
	assigneePathFormat       = "rest/api/2/issue/%s/assignee"
	noLinkTypeMatchesFormat  = "no link type matches %q"
	issueFieldsKey           = "fields"
	summaryFieldKey          = "summary"
	descriptionFieldKey      = "description"
	assigneeRequestNameField = "name"
)

var listingFields = []string{"summary", "status", "labels", "assignee", "issuetype", "updated", "created"}

// Issue fetches one issue with links, sub-tasks and comments.
func (project *Project) Issue(key string) (*tracker.Issue, error) {
	key = strings.ToUpper(key)
	project.logger.Debug("fetch issue", zap.String("key", key))
	remote, response, err := project.client.Issue.Get(key, nil)
	if err != nil {
		return nil, apiError("fetch issue", key, "issue", response, err)
	}
	issue := convertIssue(remote, project.baseURL)
	return &issue, nil
}

// List returns unresolved issues, optionally narrowed to userID ("me", "none" or a user name).
// The result is remembered so Persist can write it to the index.
func (project *Project) List(userID string) ([]tracker.Issue, error) {
	issues, err := project.search(listQuery(project.key, userID))
	if err != nil {
		return nil, err
	}
	project.pendingListing = &listing{scope: userID, issues: issues}
	return issues, nil
}

// Search runs a free-text search within the project.
func (project *Project) Search(text string) ([]tracker.Issue, error) {
	return project.search(textQuery(project.key, text))
}

// SearchIssues runs a raw JQL query.
func (project *Project) SearchIssues(query string) ([]tracker.Issue, error) {
	return project.search(query)
}

func (project *Project) search(query string) ([]tracker.Issue, error) {
	project.logger.Debug("search issues", zap.String("jql", query))
	var issues []tracker.Issue
	startAt := 0
	for {
		page, response, err := project.client.Issue.Search(query, &jiraapi.SearchOptions{
			StartAt:    startAt,
			MaxResults: searchPageSize,
			Fields:     listingFields,
		})
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		for index := range page {
			issues = append(issues, convertIssue(&page[index], project.baseURL))
		}
		startAt += len(page)
		if len(page) == 0 || response == nil || startAt >= response.Total {
			return issues, nil
		}
	}
}

// Transitions lists the moves available from the issue's current status.
func (project *Project) Transitions(key string) ([]tracker.Transition, error) {
	key = strings.ToUpper(key)
	remote, response, err := project.client.Issue.GetTransitions(key)
	if err != nil {
		return nil, apiError("list transitions of", key, "issue", response, err)
	}
	transitions := make([]tracker.Transition, 0, len(remote))
	for _, transition := range remote {
		transitions = append(transitions, convertTransition(transition))
	}
	return transitions, nil
}

// Move applies the transition whose name or target status matches target.
// It reports false when no transition matches.
func (project *Project) Move(key string, target string) (bool, error) {
	transitions, err := project.Transitions(key)
	if err != nil {
		return false, err
	}
	wanted := tracker.NormalizeName(target)
	for _, transition := range transitions {
		if tracker.NormalizeName(transition.Name) == wanted || tracker.NormalizeName(transition.To.Name) == wanted {
			return true, project.transition(key, transition)
		}
	}
	return false, nil
}

// Close applies the first transition into a done-category status.
func (project *Project) Close(key string) (bool, error) {
	transitions, err := project.Transitions(key)
	if err != nil {
		return false, err
	}
	for _, transition := range transitions {
		if strings.EqualFold(transition.To.Category, doneCategoryKey) || tracker.NormalizeName(transition.To.Name) == doneCategoryKey {
			return true, project.transition(key, transition)
		}
	}
	return false, nil
}

func (project *Project) transition(key string, transition tracker.Transition) error {
	key = strings.ToUpper(key)
	project.logger.Debug("transition issue", zap.String("key", key), zap.String("transition", transition.Name))
	response, err := project.client.Issue.DoTransition(key, transition.ID)
	if err != nil {
		return apiError("transition", key, "issue", response, err)
	}
	project.invalidate()
	return nil
}

// New creates an issue of issueType, matched case-insensitively against the project's types.
func (project *Project) New(summary string, description string, issueType string) (*tracker.Issue, error) {
	typeName := issueType
	if issueTypes, err := project.IssueTypes(); err == nil {
		wanted := tracker.NormalizeName(issueType)
		for _, candidate := range issueTypes {
			if tracker.NormalizeName(candidate.Name) == wanted {
				typeName = candidate.Name
				break
			}
		}
	}
	return project.create(&jiraapi.IssueFields{
		Project:     jiraapi.Project{Key: project.key},
		Summary:     summary,
		Description: description,
		Type:        jiraapi.IssueType{Name: typeName},
	})
}

// Subtask creates a child of parentKey using the project's sub-task issue type.
func (project *Project) Subtask(parentKey string, summary string, description string) (*tracker.Issue, error) {
	parent, err := project.Issue(parentKey)
	if err != nil {
		return nil, err
	}
	typeName := defaultSubtaskTypeName
	if issueTypes, err := project.IssueTypes(); err == nil {
		for _, candidate := range issueTypes {
			if candidate.Subtask {
				typeName = candidate.Name
				break
			}
		}
	}
	return project.create(&jiraapi.IssueFields{
		Project:     jiraapi.Project{Key: project.key},
		Summary:     summary,
		Description: description,
		Type:        jiraapi.IssueType{Name: typeName},
		Parent:      &jiraapi.Parent{Key: parent.Key},
	})
}

func (project *Project) create(fields *jiraapi.IssueFields) (*tracker.Issue, error) {
	project.logger.Debug("create issue", zap.String("type", fields.Type.Name), zap.String("summary", fields.Summary))
	created, _, err := project.client.Issue.Create(&jiraapi.Issue{Fields: fields})
	if err != nil {
		return nil, fmt.Errorf("create issue in %s: %w", project.key, err)
	}
	project.invalidate()
	return project.Issue(created.Key)
}

// Link connects two issues. A relation matching a link type's outward phrase
// (or its name) makes leftKey the source; an inward phrase reverses the roles.
func (project *Project) Link(leftKey string, rightKey string, relation string) error {
	linkTypes, err := project.LinkTypes()
	if err != nil {
		return err
	}
	leftKey, rightKey = strings.ToUpper(leftKey), strings.ToUpper(rightKey)
	wanted := tracker.NormalizeName(relation)
	for _, linkType := range linkTypes {
		inwardKey, outwardKey := leftKey, rightKey
		switch wanted {
		case tracker.NormalizeName(linkType.Outward), tracker.NormalizeName(linkType.Name):
		case tracker.NormalizeName(linkType.Inward):
			inwardKey, outwardKey = rightKey, leftKey
		default:
			continue
		}
		project.logger.Debug("link issues", zap.String("inward", inwardKey), zap.String("outward", outwardKey), zap.String("type", linkType.Name))
		response, err := project.client.Issue.AddLink(&jiraapi.IssueLink{
			Type:         jiraapi.IssueLinkType{Name: linkType.Name},
			InwardIssue:  &jiraapi.Issue{Key: inwardKey},
			OutwardIssue: &jiraapi.Issue{Key: outwardKey},
		})
		if err != nil {
			return apiError("link", leftKey, "issue", response, err)
		}
		project.invalidate()
		return nil
	}
	return fmt.Errorf(noLinkTypeMatchesFormat, relation)
}

// Unlink removes every link between the two issues.
func (project *Project) Unlink(leftKey string, rightKey string) error {
	left, err := project.Issue(leftKey)
	if err != nil {
		return err
	}
	rightKey = strings.ToUpper(rightKey)
	removed := 0
	for _, link := range left.Links {
		if link.TargetKey != rightKey {
			continue
		}
		response, err := project.client.Issue.DeleteLink(link.ID)
		if err != nil {
			return apiError("unlink", left.Key, "link", response, err)
		}
		removed++
	}
	if removed == 0 {
		return &tracker.NotFoundError{Kind: "link", Key: left.Key + " " + rightKey}
	}
	project.invalidate()
	return nil
}

// Comment adds a comment to key.
func (project *Project) Comment(key string, text string) error {
	key = strings.ToUpper(key)
	_, response, err := project.client.Issue.AddComment(key, &jiraapi.Comment{Body: text})
	if err != nil {
		return apiError("comment on", key, "issue", response, err)
	}
	project.invalidate()
	return nil
}

// GetComment returns a handle to one comment of key.
func (project *Project) GetComment(key string, commentID string) (tracker.CommentHandle, error) {
	issue, err := project.Issue(key)
	if err != nil {
		return nil, err
	}
	for _, comment := range issue.Comments {
		if comment.ID == commentID {
			return &commentHandle{project: project, issueKey: issue.Key, comment: comment}, nil
		}
	}
	return nil, &tracker.NotFoundError{Kind: "comment", Key: commentID}
}

// Assign sets the assignee of key. "me" resolves to the authenticated user and "none" clears it.
func (project *Project) Assign(key string, user string) error {
	key = strings.ToUpper(key)
	switch user {
	case tracker.UserUnassigned:
		return project.clearAssignee(key)
	case tracker.UserCurrent:
		metadata, err := project.loadMetadata()
		if err != nil {
			return err
		}
		user = metadata.currentUser
	}
	response, err := project.client.Issue.UpdateAssignee(key, &jiraapi.User{Name: user})
	if err != nil {
		return apiError("assign", key, "issue", response, err)
	}
	project.invalidate()
	return nil
}

// clearAssignee sends an explicit null, which the typed assignee call cannot express.
func (project *Project) clearAssignee(key string) error {
	request, err := project.client.NewRequest(http.MethodPut, fmt.Sprintf(assigneePathFormat, key), map[string]any{assigneeRequestNameField: nil})
	if err != nil {
		return fmt.Errorf("prepare unassign of %s: %w", key, err)
	}
	response, err := project.client.Do(request, nil)
	if err != nil {
		return apiError("unassign", key, "issue", response, err)
	}
	project.invalidate()
	return nil
}

// UpdateIssue writes the non-nil fields of update.
func (project *Project) UpdateIssue(key string, update tracker.IssueUpdate) error {
	if update.Empty() {
		return nil
	}
	key = strings.ToUpper(key)
	fields := map[string]any{}
	if update.Summary != nil {
		fields[summaryFieldKey] = *update.Summary
	}
	if update.Description != nil {
		fields[descriptionFieldKey] = *update.Description
	}
	response, err := project.client.Issue.UpdateIssue(key, map[string]interface{}{issueFieldsKey: fields})
	if err != nil {
		return apiError("update", key, "issue", response, err)
	}
	project.invalidate()
	return nil
}

type commentHandle struct {
	project  *Project
	issueKey string
	comment  tracker.Comment
}

func (handle *commentHandle) Body() string {
	return handle.comment.Body
}

func (handle *commentHandle) Update(body string) error {
	_, response, err := handle.project.client.Issue.UpdateComment(handle.issueKey, &jiraapi.Comment{ID: handle.comment.ID, Body: body})
	if err != nil {
		return apiError("update comment on", handle.issueKey, "comment", response, err)
	}
	handle.comment.Body = body
	handle.project.invalidate()
	return nil
}

func (handle *commentHandle) Delete() error {
	if err := handle.project.client.Issue.DeleteComment(handle.issueKey, handle.comment.ID); err != nil {
		return fmt.Errorf("delete comment %s on %s: %w", handle.comment.ID, handle.issueKey, err)
	}
	handle.project.invalidate()
	return nil
}
