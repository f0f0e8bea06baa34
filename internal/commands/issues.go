package commands

import (
	"errors"

	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/tracker"
)

const copiedURLFormat = "Copied %s\n"

// CatIssues prints every requested issue. All keys are resolved before any
// output, so an unknown key exits 127 without printing the others.
func CatIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	var issues []*tracker.Issue
	for _, key := range namespace.Strings(argumentIssueID) {
		issue, issueError := commandContext.Project.Issue(key)
		if issueError != nil {
			return failure(exitCodeForLookup(issueError)), issueError
		}
		issues = append(issues, issue)
	}
	verbose := namespace.Bool(argumentVerbose)
	for _, issue := range issues {
		if printError := commandContext.Presenter.PrintIssue(commandContext.Project, issue, verbose); printError != nil {
			return failure(exitFailure), printError
		}
	}
	return success(false), nil
}

// ViewIssue opens the issue in the browser, or copies its URL with -c.
func ViewIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	issue, issueError := commandContext.Project.Issue(namespace.String(argumentIssueID))
	if issueError != nil {
		return failure(exitCodeForLookup(issueError)), issueError
	}
	permalink := issue.Permalink()
	if namespace.Bool(argumentCopy) {
		if copyError := commandContext.Copier.Copy(permalink); copyError != nil {
			return failure(exitFailure), copyError
		}
		commandContext.printf(copiedURLFormat, permalink)
		return success(false), nil
	}
	if openError := commandContext.Browser.Open(permalink); openError != nil {
		return failure(exitFailure), openError
	}
	return success(false), nil
}

func exitCodeForLookup(lookupError error) int {
	if errors.Is(lookupError, tracker.ErrNotFound) {
		return exitNotFound
	}
	return exitFailure
}
