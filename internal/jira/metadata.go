package jira

import (
	"fmt"
	"net/http"

	jiraapi "github.com/andygrunwald/go-jira"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	projectStatusesPathFormat = "rest/api/2/project/%s/statuses"
	linkTypesPath             = "rest/api/2/issueLinkType"
)

type projectMetadata struct {
	states      []tracker.Status
	issueTypes  []tracker.IssueType
	linkTypes   []tracker.LinkType
	currentUser string
}

type linkTypeList struct {
	IssueLinkTypes []jiraapi.IssueLinkType `json:"issueLinkTypes"`
}

type issueTypeStatuses struct {
	Name     string           `json:"name"`
	Subtask  bool             `json:"subtask"`
	Statuses []jiraapi.Status `json:"statuses"`
}

// Refresh reloads states, issue types, link types and the current user concurrently.
func (project *Project) Refresh() error {
	metadata := &projectMetadata{}
	var group errgroup.Group
	group.Go(func() error {
		states, err := project.fetchStates()
		metadata.states = states
		return err
	})
	group.Go(func() error {
		issueTypes, err := project.fetchIssueTypes()
		metadata.issueTypes = issueTypes
		return err
	})
	group.Go(func() error {
		linkTypes, err := project.fetchLinkTypes()
		metadata.linkTypes = linkTypes
		return err
	})
	group.Go(func() error {
		currentUser, err := project.fetchCurrentUser()
		metadata.currentUser = currentUser
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}
	project.metadata = metadata
	project.logger.Debug("metadata refreshed",
		zap.String("project", project.key),
		zap.Int("states", len(metadata.states)),
		zap.Int("issue_types", len(metadata.issueTypes)),
		zap.Int("link_types", len(metadata.linkTypes)))
	return nil
}

func (project *Project) loadMetadata() (*projectMetadata, error) {
	if project.metadata == nil {
		if err := project.Refresh(); err != nil {
			return nil, err
		}
	}
	return project.metadata, nil
}

// States lists the workflow states used by the project.
func (project *Project) States() ([]tracker.Status, error) {
	metadata, err := project.loadMetadata()
	if err != nil {
		return nil, err
	}
	return metadata.states, nil
}

// IssueTypes lists the issue types of the project.
func (project *Project) IssueTypes() ([]tracker.IssueType, error) {
	metadata, err := project.loadMetadata()
	if err != nil {
		return nil, err
	}
	return metadata.issueTypes, nil
}

// LinkTypes lists the server's link types.
func (project *Project) LinkTypes() ([]tracker.LinkType, error) {
	metadata, err := project.loadMetadata()
	if err != nil {
		return nil, err
	}
	return metadata.linkTypes, nil
}

func (project *Project) fetchStates() ([]tracker.Status, error) {
	request, err := project.client.NewRequest(http.MethodGet, fmt.Sprintf(projectStatusesPathFormat, project.key), nil)
	if err != nil {
		return nil, fmt.Errorf("prepare status request: %w", err)
	}
	var perType []issueTypeStatuses
	if response, err := project.client.Do(request, &perType); err != nil {
		project.logger.Debug("project statuses unavailable, using all statuses", zap.Error(err))
		return project.fetchAllStatuses(response)
	}
	var states []tracker.Status
	seen := map[string]struct{}{}
	for _, issueType := range perType {
		for index := range issueType.Statuses {
			status := convertStatus(&issueType.Statuses[index])
			if _, duplicate := seen[status.Name]; duplicate {
				continue
			}
			seen[status.Name] = struct{}{}
			states = append(states, status)
		}
	}
	return states, nil
}

func (project *Project) fetchAllStatuses(previous *jiraapi.Response) ([]tracker.Status, error) {
	if previous != nil && previous.StatusCode == http.StatusNotFound {
		return nil, &tracker.NotFoundError{Kind: "project", Key: project.key}
	}
	remote, response, err := project.client.Status.GetAllStatuses()
	if err != nil {
		return nil, apiError("list statuses for", project.key, "project", response, err)
	}
	states := make([]tracker.Status, 0, len(remote))
	for index := range remote {
		states = append(states, convertStatus(&remote[index]))
	}
	return states, nil
}

func (project *Project) fetchIssueTypes() ([]tracker.IssueType, error) {
	remote, response, err := project.client.Project.Get(project.key)
	if err != nil {
		return nil, apiError("load project", project.key, "project", response, err)
	}
	issueTypes := make([]tracker.IssueType, 0, len(remote.IssueTypes))
	for _, issueType := range remote.IssueTypes {
		issueTypes = append(issueTypes, tracker.IssueType{Name: issueType.Name, Subtask: issueType.Subtask})
	}
	return issueTypes, nil
}

func (project *Project) fetchLinkTypes() ([]tracker.LinkType, error) {
	request, err := project.client.NewRequest(http.MethodGet, linkTypesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("prepare link type request: %w", err)
	}
	var remote linkTypeList
	if _, err := project.client.Do(request, &remote); err != nil {
		return nil, fmt.Errorf("list link types: %w", err)
	}
	linkTypes := make([]tracker.LinkType, 0, len(remote.IssueLinkTypes))
	for _, linkType := range remote.IssueLinkTypes {
		linkTypes = append(linkTypes, convertLinkType(linkType))
	}
	return linkTypes, nil
}

func (project *Project) fetchCurrentUser() (string, error) {
	self, _, err := project.client.User.GetSelf()
	if err != nil {
		return "", fmt.Errorf("identify current user: %w", err)
	}
	if self.Name != "" {
		return self.Name, nil
	}
	return self.AccountID, nil
}
