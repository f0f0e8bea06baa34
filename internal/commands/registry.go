package commands

import (
	"github.com/temirov/jirate/internal/router"
)

const (
	argumentMine        = "mine"
	argumentUnassigned  = "unassigned"
	argumentUser        = "user"
	argumentLabels      = "labels"
	argumentCached      = "cached"
	argumentStatus      = "status"
	argumentNamedSearch = "named_search"
	argumentRaw         = "raw"
	argumentText        = "text"
	argumentVerbose     = "verbose"
	argumentIssueID     = "issue_id"
	argumentIssue       = "issue"
	argumentCopy        = "copy"
	argumentTarget      = "target"
	argumentType        = "type"
	argumentQuiet       = "quiet"
	argumentIssueLeft   = "issue_left"
	argumentIssueRight  = "issue_right"
	argumentEdit        = "edit"
	argumentRemove      = "remove"
	argumentDryRun      = "dry_run"
	argumentGlobal      = "global"
	argumentForce       = "force"

	groupAssignee    = "assignee"
	groupSearchMode  = "search mode"
	groupCommentMode = "comment mode"

	defaultIssueType = "task"

	// InitCommandName names the command that runs without a configured backend.
	InitCommandName = "init"
)

type commandDefinition struct {
	name      string
	help      string
	arguments []router.ArgumentSpec
	handler   router.Handler[*Context]
}

func issueKey(name string, arity router.Arity, help string) router.ArgumentSpec {
	return router.Positional(name, arity, help).WithCoercion(router.Uppercase)
}

func definitions() []commandDefinition {
	return []commandDefinition{
		{
			name: "ls",
			help: "List issue(s)",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentMine, "m", "Display only issues assigned to me.").InGroup(groupAssignee),
				router.Switch(argumentUnassigned, "U", "Display only issues with no assignee.").InGroup(groupAssignee),
				router.Option(argumentUser, "u", "Display only issues assigned to the specific user.").InGroup(groupAssignee),
				router.Switch(argumentLabels, "l", "Display issue labels."),
				router.Switch(argumentCached, "c", "Show the last listing stored in the local index."),
				router.Positional(argumentStatus, router.ArityOptional, "Restrict to issues in this state"),
			},
			handler: ListIssues,
		},
		{
			name: "search",
			help: "Search issue(s) with matching text",
			arguments: []router.ArgumentSpec{
				router.Option(argumentNamedSearch, "n", "Perform preconfigured named search").InGroup(groupSearchMode),
				router.Switch(argumentRaw, "r", "Perform raw JQL query").InGroup(groupSearchMode),
				router.Positional(argumentText, router.ArityZeroOrMore, "Search text"),
			},
			handler: SearchIssues,
		},
		{
			name: "cat",
			help: "Print issue(s)",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentVerbose, "v", "Verbose output"),
				issueKey(argumentIssueID, router.ArityOneOrMore, "Target issue(s)"),
			},
			handler: CatIssues,
		},
		{
			name: "view",
			help: "Display issue in browser",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentCopy, "c", "Copy the issue URL to the clipboard instead"),
				issueKey(argumentIssueID, router.ArityOne, "Target issue"),
			},
			handler: ViewIssue,
		},
		{name: "ll", help: "List states available to project", handler: ListStates},
		{name: "lt", help: "List issue types available to project", handler: ListIssueTypes},
		{name: "link-types", help: "Display link types", handler: ListLinkTypes},
		{
			name: "assign",
			help: "Assign issue",
			arguments: []router.ArgumentSpec{
				issueKey(argumentIssueID, router.ArityOne, "Target issue"),
				router.Positional(argumentUser, router.ArityOne, "Target assignee"),
			},
			handler: AssignIssue,
		},
		{
			name: "unassign",
			help: "Remove assignee from issue",
			arguments: []router.ArgumentSpec{
				issueKey(argumentIssueID, router.ArityOne, "Target issue"),
			},
			handler: UnassignIssue,
		},
		{
			name: "mv",
			help: "Move issue(s) to new state",
			arguments: []router.ArgumentSpec{
				issueKey(argumentIssue, router.ArityOneOrMore, "Issue key(s)"),
				router.Positional(argumentTarget, router.ArityOne, "Target state"),
			},
			handler: MoveIssues,
		},
		{
			name: "new",
			help: "Create a new issue",
			arguments: []router.ArgumentSpec{
				router.Option(argumentType, "t", "Issue type (project-dependent)").WithDefault(defaultIssueType),
				router.Switch(argumentQuiet, "q", "Only print new issue ID after creation (for scripting)"),
				router.Positional(argumentText, router.ArityZeroOrMore, "Issue summary"),
			},
			handler: NewIssue,
		},
		{
			name: "subtask",
			help: "Create a new subtask",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentQuiet, "q", "Only print subtask ID after creation (for scripting)"),
				issueKey(argumentIssueID, router.ArityOne, "Parent issue"),
				router.Positional(argumentText, router.ArityZeroOrMore, "Subtask summary"),
			},
			handler: NewSubtask,
		},
		{
			name: "link",
			help: "Create link between two issues",
			arguments: []router.ArgumentSpec{
				issueKey(argumentIssueLeft, router.ArityOne, "First issue"),
				router.Positional(argumentText, router.ArityOneOrMore, "Link text"),
				issueKey(argumentIssueRight, router.ArityOne, "Second issue"),
			},
			handler: LinkIssues,
		},
		{
			name: "unlink",
			help: "Remove link(s) between two issues",
			arguments: []router.ArgumentSpec{
				issueKey(argumentIssueLeft, router.ArityOne, "First issue"),
				issueKey(argumentIssueRight, router.ArityOne, "Second issue"),
			},
			handler: UnlinkIssues,
		},
		{
			name: "comment",
			help: "Comment (or remove) on an issue",
			arguments: []router.ArgumentSpec{
				router.Option(argumentEdit, "e", "Comment ID to edit").InGroup(groupCommentMode).WithMetavar("ID"),
				router.Option(argumentRemove, "r", "Comment ID to remove").InGroup(groupCommentMode).WithMetavar("ID"),
				issueKey(argumentIssue, router.ArityOne, "Issue to operate on"),
				router.Positional(argumentText, router.ArityZeroOrMore, "Comment text"),
			},
			handler: CommentOnIssue,
		},
		{
			name: "edit",
			help: "Edit issue summary and description",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentDryRun, "n", "Print the changes as a diff without saving"),
				issueKey(argumentIssue, router.ArityOne, "Issue"),
				router.Positional(argumentText, router.ArityZeroOrMore, "New summary"),
			},
			handler: EditIssue,
		},
		{
			name: "close",
			help: "Move issue(s) to closed/done/resolved",
			arguments: []router.ArgumentSpec{
				issueKey(argumentTarget, router.ArityOneOrMore, "Target issue(s)"),
			},
			handler: CloseIssues,
		},
		{name: "refresh", help: "Refresh project metadata and rebuild the local index", handler: RefreshProject},
		{
			name: InitCommandName,
			help: "Write a configuration template",
			arguments: []router.ArgumentSpec{
				router.Switch(argumentGlobal, "", "Write ~/.config/jirate/config.yaml instead of ./.jirate.yaml"),
				router.Switch(argumentForce, "", "Overwrite an existing configuration file"),
			},
			handler: InitConfiguration,
		},
	}
}

// Register adds every jirate command to application.
func Register(application *Router) error {
	for _, definition := range definitions() {
		if _, registerError := application.Register([]string{definition.name}, definition.help, definition.arguments, definition.handler); registerError != nil {
			return registerError
		}
	}
	return nil
}
