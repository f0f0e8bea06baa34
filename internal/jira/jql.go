package jira

import (
	"fmt"
	"strings"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	listQueryFormat     = "project = %s AND resolution = Unresolved%s ORDER BY updated DESC"
	textQueryFormat     = "project = %s AND text ~ %s ORDER BY updated DESC"
	assigneeCurrentUser = " AND assignee = currentUser()"
	assigneeEmpty       = " AND assignee is EMPTY"
	assigneeNamedFormat = " AND assignee = %s"
)

// listQuery selects unresolved issues of project, optionally narrowed by assignee.
func listQuery(projectKey string, userID string) string {
	var assignee string
	switch userID {
	case "":
	case tracker.UserCurrent:
		assignee = assigneeCurrentUser
	case tracker.UserUnassigned:
		assignee = assigneeEmpty
	default:
		assignee = fmt.Sprintf(assigneeNamedFormat, quoteJQL(userID))
	}
	return fmt.Sprintf(listQueryFormat, quoteJQL(projectKey), assignee)
}

// textQuery searches summaries, descriptions and comments of project.
func textQuery(projectKey string, text string) string {
	return fmt.Sprintf(textQueryFormat, quoteJQL(projectKey), quoteJQL(text))
}

func quoteJQL(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return `"` + escaped + `"`
}
