package commands

import (
	"errors"
	"strings"

	"github.com/temirov/jirate/internal/editor"
	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/tracker"
)

const (
	cancelledMessage = "Canceled"
	noChangesMessage = "No changes"
)

// NewIssue creates an issue from the command-line text, or from the editor when no text is given.
func NewIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	summary, description, composed, composeError := composeIssueText(commandContext, namespace.Text(argumentText))
	if composeError != nil {
		return failure(exitFailure), composeError
	}
	if !composed {
		commandContext.println(cancelledMessage)
		return failure(exitFailure), nil
	}
	issue, createError := commandContext.Project.New(summary, description, namespace.String(argumentType))
	if createError != nil {
		return failure(exitFailure), createError
	}
	return reportCreated(commandContext, namespace, issue)
}

// NewSubtask creates a child of the given issue.
func NewSubtask(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	parent, parentError := commandContext.Project.Issue(namespace.String(argumentIssueID))
	if parentError != nil {
		return failure(exitCodeForLookup(parentError)), parentError
	}
	summary, description, composed, composeError := composeIssueText(commandContext, namespace.Text(argumentText))
	if composeError != nil {
		return failure(exitFailure), composeError
	}
	if !composed {
		commandContext.println(cancelledMessage)
		return failure(exitFailure), nil
	}
	issue, createError := commandContext.Project.Subtask(parent.Key, summary, description)
	if createError != nil {
		return failure(exitFailure), createError
	}
	return reportCreated(commandContext, namespace, issue)
}

func reportCreated(commandContext *Context, namespace *Namespace, issue *tracker.Issue) (router.Result, error) {
	if namespace.Bool(argumentQuiet) {
		commandContext.println(issue.Key)
		return success(true), nil
	}
	if printError := commandContext.Presenter.PrintIssue(commandContext.Project, issue, false); printError != nil {
		return success(true), printError
	}
	return success(true), nil
}

// composeIssueText returns the summary and description from text, or from the
// editor when text is empty. composed is false when the user cancelled.
func composeIssueText(commandContext *Context, text string) (summary string, description string, composed bool, err error) {
	if text != "" {
		return text, "", true, nil
	}
	edited, editError := commandContext.Editor.Edit("")
	if errors.Is(editError, editor.ErrCancelled) {
		return "", "", false, nil
	}
	if editError != nil {
		return "", "", false, editError
	}
	summary, description = editor.SplitIssueText(edited)
	if summary == "" {
		return "", "", false, nil
	}
	return summary, description, true, nil
}

// editText runs the editor on initial; cancelled is true for empty output.
func editText(commandContext *Context, initial string) (text string, cancelled bool, err error) {
	edited, editError := commandContext.Editor.Edit(initial)
	if errors.Is(editError, editor.ErrCancelled) {
		return "", true, nil
	}
	if editError != nil {
		return "", false, editError
	}
	return strings.TrimRight(edited, "\r\n"), false, nil
}
