package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/tracker"
)

const (
	movedFormat         = "Moved %s to %s\n"
	noTransitionMessage = "no transition leads there"
	notClosedMessage    = "no transition closes the issue"
)

// MoveIssues moves each issue to target, continuing past failures. Any failure exits 1.
func MoveIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	target := namespace.String(argumentTarget)
	exitCode := exitSuccess
	for _, key := range namespace.Strings(argumentIssue) {
		moved, moveError := commandContext.Project.Move(key, target)
		switch {
		case moveError != nil:
			commandContext.logger().Error("move failed", zap.String("issue", key), zap.String("target", target), zap.Error(moveError))
			exitCode = exitFailure
		case !moved:
			commandContext.logger().Error(noTransitionMessage, zap.String("issue", key), zap.String("target", target))
			exitCode = exitFailure
		default:
			commandContext.printf(movedFormat, key, target)
		}
	}
	return router.Result{ExitCode: exitCode}, nil
}

// CloseIssues closes each target, continuing past failures. Any failure exits 1.
func CloseIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	exitCode := exitSuccess
	for _, key := range namespace.Strings(argumentTarget) {
		closed, closeError := commandContext.Project.Close(key)
		switch {
		case closeError != nil:
			commandContext.logger().Error("close failed", zap.String("issue", key), zap.Error(closeError))
			exitCode = exitFailure
		case !closed:
			commandContext.logger().Error(notClosedMessage, zap.String("issue", key))
			exitCode = exitFailure
		}
	}
	return router.Result{ExitCode: exitCode}, nil
}

// AssignIssue sets the assignee.
func AssignIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	if assignError := commandContext.Project.Assign(namespace.String(argumentIssueID), namespace.String(argumentUser)); assignError != nil {
		return failure(exitCodeForLookup(assignError)), assignError
	}
	return success(false), nil
}

// UnassignIssue clears the assignee.
func UnassignIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	if assignError := commandContext.Project.Assign(namespace.String(argumentIssueID), tracker.UserUnassigned); assignError != nil {
		return failure(exitCodeForLookup(assignError)), assignError
	}
	return success(false), nil
}

// LinkIssues links two issues with the link type whose phrasing matches the text.
func LinkIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	linkError := commandContext.Project.Link(namespace.String(argumentIssueLeft), namespace.String(argumentIssueRight), namespace.Text(argumentText))
	if linkError != nil {
		return failure(exitCodeForLookup(linkError)), linkError
	}
	return success(true), nil
}

// UnlinkIssues removes every link between two issues.
func UnlinkIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	if unlinkError := commandContext.Project.Unlink(namespace.String(argumentIssueLeft), namespace.String(argumentIssueRight)); unlinkError != nil {
		return failure(exitCodeForLookup(unlinkError)), unlinkError
	}
	return success(true), nil
}

// RefreshProject reloads metadata and rebuilds the issue index.
func RefreshProject(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	if refreshError := commandContext.Project.Refresh(); refreshError != nil {
		return failure(exitFailure), refreshError
	}
	if indexError := commandContext.Project.IndexIssues(); indexError != nil {
		return failure(exitFailure), indexError
	}
	return success(true), nil
}
