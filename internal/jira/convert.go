package jira

import (
	"strings"
	"time"

	jiraapi "github.com/andygrunwald/go-jira"

	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/utils"
)

const (
	customFieldPrefix = "customfield_"
	browsePathFormat  = "browse/"
)

// convertIssue maps a REST issue onto the tracker model.
func convertIssue(remote *jiraapi.Issue, baseURL string) tracker.Issue {
	issue := tracker.Issue{
		ID:  remote.ID,
		Key: remote.Key,
		URL: permalink(baseURL, remote.Key),
	}
	fields := remote.Fields
	if fields == nil {
		return issue
	}
	issue.Summary = fields.Summary
	issue.Description = fields.Description
	issue.Type = fields.Type.Name
	if fields.Priority != nil {
		issue.Priority = fields.Priority.Name
	}
	issue.Status = convertStatus(fields.Status)
	issue.Created = time.Time(fields.Created)
	issue.Updated = time.Time(fields.Updated)
	if fields.Parent != nil {
		issue.Parent = fields.Parent.Key
	}
	issue.Creator = convertUser(fields.Creator)
	issue.Reporter = convertUser(fields.Reporter)
	issue.Assignee = convertUser(fields.Assignee)
	issue.Labels = append([]string(nil), fields.Labels...)

	for _, remoteLink := range fields.IssueLinks {
		if link, converted := convertLink(remoteLink); converted {
			issue.Links = append(issue.Links, link)
		}
	}
	for _, remoteSubtask := range fields.Subtasks {
		if remoteSubtask == nil {
			continue
		}
		issue.Subtasks = append(issue.Subtasks, tracker.Subtask{
			Key:     remoteSubtask.Key,
			Status:  convertStatus(remoteSubtask.Fields.Status),
			Summary: remoteSubtask.Fields.Summary,
		})
	}
	if fields.Comments != nil {
		for _, remoteComment := range fields.Comments.Comments {
			if remoteComment != nil {
				issue.Comments = append(issue.Comments, convertComment(remoteComment))
			}
		}
	}
	for name, value := range fields.Unknowns {
		if !strings.HasPrefix(name, customFieldPrefix) {
			continue
		}
		if issue.CustomFields == nil {
			issue.CustomFields = map[string]any{}
		}
		issue.CustomFields[name] = value
	}
	return issue
}

func convertStatus(remote *jiraapi.Status) tracker.Status {
	if remote == nil {
		return tracker.Status{}
	}
	return tracker.Status{
		Name:          remote.Name,
		Category:      remote.StatusCategory.Name,
		CategoryColor: remote.StatusCategory.ColorName,
	}
}

func convertUser(remote *jiraapi.User) *tracker.User {
	if remote == nil {
		return nil
	}
	name := remote.Name
	if name == "" {
		name = remote.AccountID
	}
	return &tracker.User{Name: name, Email: remote.EmailAddress, DisplayName: remote.DisplayName}
}

func convertLink(remote *jiraapi.IssueLink) (tracker.Link, bool) {
	if remote == nil {
		return tracker.Link{}, false
	}
	link := tracker.Link{ID: remote.ID}
	var target *jiraapi.Issue
	switch {
	case remote.OutwardIssue != nil:
		link.Direction = tracker.LinkOutward
		link.Relation = remote.Type.Outward
		target = remote.OutwardIssue
	case remote.InwardIssue != nil:
		link.Direction = tracker.LinkInward
		link.Relation = remote.Type.Inward
		target = remote.InwardIssue
	default:
		return tracker.Link{}, false
	}
	link.TargetKey = target.Key
	if target.Fields != nil {
		link.TargetStatus = convertStatus(target.Fields.Status)
		link.TargetSummary = target.Fields.Summary
	}
	return link, true
}

func convertComment(remote *jiraapi.Comment) tracker.Comment {
	author := remote.UpdateAuthor
	if author.Name == "" && author.EmailAddress == "" && author.DisplayName == "" {
		author = remote.Author
	}
	converted := convertUser(&author)
	return tracker.Comment{
		ID:      remote.ID,
		Author:  *converted,
		Created: utils.ParseTrackerTimestamp(remote.Created),
		Updated: utils.ParseTrackerTimestamp(remote.Updated),
		Body:    remote.Body,
	}
}

func convertTransition(remote jiraapi.Transition) tracker.Transition {
	return tracker.Transition{
		ID:   remote.ID,
		Name: remote.Name,
		To:   convertStatus(&remote.To),
	}
}

func convertLinkType(remote jiraapi.IssueLinkType) tracker.LinkType {
	return tracker.LinkType{ID: remote.ID, Name: remote.Name, Inward: remote.Inward, Outward: remote.Outward}
}

func permalink(baseURL string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + browsePathFormat + key
}
