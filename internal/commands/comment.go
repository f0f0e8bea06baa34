package commands

import (
	"github.com/temirov/jirate/internal/router"
)

// CommentOnIssue adds a comment, or edits (-e ID) or removes (-r ID) an existing one.
// Cancelling in the editor is not a failure.
func CommentOnIssue(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	issueKey := namespace.String(argumentIssue)
	text := namespace.Text(argumentText)

	if namespace.Has(argumentRemove) {
		handle, lookupError := commandContext.Project.GetComment(issueKey, namespace.String(argumentRemove))
		if lookupError != nil {
			return failure(exitCodeForLookup(lookupError)), lookupError
		}
		if deleteError := handle.Delete(); deleteError != nil {
			return failure(exitFailure), deleteError
		}
		return success(false), nil
	}

	if namespace.Has(argumentEdit) {
		handle, lookupError := commandContext.Project.GetComment(issueKey, namespace.String(argumentEdit))
		if lookupError != nil {
			return failure(exitCodeForLookup(lookupError)), lookupError
		}
		updated := text
		if updated == "" {
			edited, cancelled, editError := editText(commandContext, handle.Body())
			if editError != nil {
				return failure(exitFailure), editError
			}
			if cancelled {
				commandContext.println(cancelledMessage)
				return success(false), nil
			}
			updated = edited
		}
		if updated == handle.Body() {
			commandContext.println(noChangesMessage)
			return success(false), nil
		}
		if updateError := handle.Update(updated); updateError != nil {
			return failure(exitFailure), updateError
		}
		return success(false), nil
	}

	if text == "" {
		edited, cancelled, editError := editText(commandContext, "")
		if editError != nil {
			return failure(exitFailure), editError
		}
		if cancelled {
			commandContext.println(cancelledMessage)
			return success(false), nil
		}
		text = edited
	}
	if commentError := commandContext.Project.Comment(issueKey, text); commentError != nil {
		return failure(exitCodeForLookup(commentError)), commentError
	}
	return success(false), nil
}
