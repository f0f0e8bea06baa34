package commands

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/temirov/jirate/internal/editor"
	"github.com/temirov/jirate/internal/output"
	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/tracker"
)

const (
	diffRemovedPrefix = "-"
	diffAddedPrefix   = "+"
	diffKeptPrefix    = " "
	diffRemovedColor  = "red"
	diffAddedColor    = "green"
)

// EditIssue changes the summary and description. Command-line text replaces
// only the summary; otherwise both are edited together in the editor. With -n
// the change is printed as a diff and nothing is saved.
func EditIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	issue, issueError := commandContext.Project.Issue(namespace.String(argumentIssue))
	if issueError != nil {
		return failure(exitCodeForLookup(issueError)), issueError
	}

	summary, description := issue.Summary, issue.Description
	if text := namespace.Text(argumentText); text != "" {
		summary = text
	} else {
		edited, cancelled, editError := editText(commandContext, editor.JoinIssueText(issue.Summary, issue.Description))
		if editError != nil {
			return failure(exitFailure), editError
		}
		if cancelled {
			commandContext.println(cancelledMessage)
			return success(false), nil
		}
		summary, description = editor.SplitIssueText(edited)
	}

	update := issueChanges(issue, summary, description)
	if update.Empty() {
		commandContext.println(noChangesMessage)
		return success(false), nil
	}
	if namespace.Bool(argumentDryRun) {
		before := editor.JoinIssueText(issue.Summary, issue.Description)
		after := editor.JoinIssueText(summary, description)
		commandContext.printf("%s", RenderLineDiff(before, after, commandContext.Presenter.Palette()))
		return success(false), nil
	}
	if updateError := commandContext.Project.UpdateIssue(issue.Key, update); updateError != nil {
		return failure(exitFailure), updateError
	}
	return success(false), nil
}

// issueChanges keeps the summary unless a non-empty different one was given.
func issueChanges(issue *tracker.Issue, summary string, description string) tracker.IssueUpdate {
	var update tracker.IssueUpdate
	if summary != "" && summary != issue.Summary {
		update.Summary = &summary
	}
	if description != issue.Description {
		update.Description = &description
	}
	return update
}

// RenderLineDiff returns a unified-style line diff of before and after.
func RenderLineDiff(before string, after string, palette *output.Palette) string {
	engine := diffmatchpatch.New()
	beforeChars, afterChars, lines := engine.DiffLinesToChars(before, after)
	differences := engine.DiffCharsToLines(engine.DiffMain(beforeChars, afterChars, false), lines)

	var builder strings.Builder
	for _, difference := range differences {
		prefix, color := diffKeptPrefix, ""
		switch difference.Type {
		case diffmatchpatch.DiffDelete:
			prefix, color = diffRemovedPrefix, diffRemovedColor
		case diffmatchpatch.DiffInsert:
			prefix, color = diffAddedPrefix, diffAddedColor
		}
		for _, line := range strings.SplitAfter(difference.Text, "\n") {
			if line == "" {
				continue
			}
			rendered := prefix + strings.TrimSuffix(line, "\n")
			if color != "" {
				rendered = palette.Foreground(rendered, color)
			}
			builder.WriteString(rendered)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
