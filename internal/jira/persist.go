package jira

import (
	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/index"
	"github.com/temirov/jirate/internal/tracker"
)

// listing is the last List result of this invocation, written to the index by Persist.
type listing struct {
	scope  string
	issues []tracker.Issue
}

// IndexIssues stores every unresolved issue of the project in the index.
func (project *Project) IndexIssues() error {
	if project.store == nil {
		return nil
	}
	issues, err := project.search(listQuery(project.key, ""))
	if err != nil {
		return err
	}
	project.logger.Debug("index issues", zap.String("project", project.key), zap.Int("count", len(issues)))
	return project.store.Replace(project.key, "", issues, project.clock())
}

// Persist writes the pending listing, if any, to the index.
func (project *Project) Persist() error {
	if project.store == nil || project.pendingListing == nil {
		return nil
	}
	pending := project.pendingListing
	if err := project.store.Replace(project.key, pending.scope, pending.issues, project.clock()); err != nil {
		return err
	}
	project.pendingListing = nil
	return nil
}

// CachedList returns the stored listing for userID without contacting the server.
func (project *Project) CachedList(userID string) (index.Snapshot, bool, error) {
	if project.store == nil {
		return index.Snapshot{}, false, nil
	}
	return project.store.Snapshot(project.key, userID)
}

// invalidate marks stored listings stale after a mutation. Index failures never fail the mutation.
func (project *Project) invalidate() {
	if project.store == nil {
		return
	}
	if err := project.store.MarkStale(project.key); err != nil {
		project.logger.Warn("mark index stale", zap.String("project", project.key), zap.Error(err))
	}
}
