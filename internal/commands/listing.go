package commands

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/output"
	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/utils"
)

const (
	defaultSearchName   = "default"
	stateIndent         = "   "
	noCachedListing     = "no cached listing for this selection; run ls without -c first"
	staleListingMessage = "cached listing is stale; run ls without -c to refresh"
	cachedListingHeader = "Cached %s\n"
)

var errCachedListingUnsupported = errors.New("this project does not keep a local index")

// ListIssues prints unresolved issues grouped by status.
func ListIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	userID := ""
	switch {
	case namespace.Bool(argumentMine):
		userID = tracker.UserCurrent
	case namespace.Bool(argumentUnassigned):
		userID = tracker.UserUnassigned
	case namespace.Has(argumentUser):
		userID = namespace.String(argumentUser)
	}
	options := output.ListingOptions{
		StatusFilter: namespace.String(argumentStatus),
		ShowLabels:   namespace.Bool(argumentLabels),
	}

	if namespace.Bool(argumentCached) {
		return listCachedIssues(commandContext, userID, options)
	}

	issues, listError := commandContext.Project.List(userID)
	if listError != nil {
		return failure(exitFailure), listError
	}
	if printError := commandContext.Presenter.PrintIssueList(issues, options); printError != nil {
		return failure(exitFailure), printError
	}
	return success(true), nil
}

func listCachedIssues(commandContext *Context, userID string, options output.ListingOptions) (router.Result, error) {
	lister, supported := commandContext.Project.(CachedLister)
	if !supported {
		return failure(exitFailure), errCachedListingUnsupported
	}
	snapshot, found, snapshotError := lister.CachedList(userID)
	if snapshotError != nil {
		return failure(exitFailure), snapshotError
	}
	if !found {
		return failure(exitFailure), errors.New(noCachedListing)
	}
	if snapshot.Stale {
		commandContext.logger().Warn(staleListingMessage, zap.Time("captured_at", snapshot.CapturedAt))
	}
	commandContext.printf(cachedListingHeader, utils.FormatTimestamp(snapshot.CapturedAt))
	if printError := commandContext.Presenter.PrintIssueList(snapshot.Issues, options); printError != nil {
		return failure(exitFailure), printError
	}
	return success(false), nil
}

// SearchIssues runs a named search, a raw query, or a text search. With neither
// text nor a name it runs the "default" named search. No results exits 127.
func SearchIssues(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	named := namespace.String(argumentNamedSearch)
	text := namespace.Text(argumentText)
	if text == "" && named == "" {
		named = defaultSearchName
	}

	var (
		issues      []tracker.Issue
		searchError error
	)
	switch {
	case named != "":
		query, configured := lookupNamedSearch(commandContext.Project, named)
		if !configured {
			return failure(exitFailure), &NamedSearchNotFoundError{Name: named}
		}
		issues, searchError = commandContext.Project.SearchIssues(query)
	case namespace.Bool(argumentRaw):
		issues, searchError = commandContext.Project.SearchIssues(text)
	default:
		issues, searchError = commandContext.Project.Search(text)
	}
	if searchError != nil {
		return failure(exitFailure), searchError
	}
	if len(issues) == 0 {
		return failure(exitNotFound), nil
	}
	if printError := commandContext.Presenter.PrintIssueList(issues, output.ListingOptions{}); printError != nil {
		return failure(exitFailure), printError
	}
	return success(false), nil
}

// lookupNamedSearch matches names case-insensitively since configuration keys are folded to lower case.
func lookupNamedSearch(project tracker.Project, name string) (string, bool) {
	stored, present := project.UserData(tracker.UserDataSearches)
	if !present {
		return "", false
	}
	searches, valid := stored.(map[string]string)
	if !valid {
		return "", false
	}
	if query, found := searches[name]; found {
		return query, true
	}
	for configuredName, query := range searches {
		if strings.EqualFold(configuredName, name) {
			return query, true
		}
	}
	return "", false
}

// ListStates prints the workflow states of the project.
func ListStates(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	states, statesError := commandContext.Project.States()
	if statesError != nil {
		return failure(exitFailure), statesError
	}
	palette := commandContext.Presenter.Palette()
	for _, state := range states {
		commandContext.println(stateIndent + palette.Foreground(state.Name, state.CategoryColor))
	}
	return success(false), nil
}

// ListIssueTypes prints the issue types of the project.
func ListIssueTypes(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	issueTypes, typesError := commandContext.Project.IssueTypes()
	if typesError != nil {
		return failure(exitFailure), typesError
	}
	for _, issueType := range issueTypes {
		commandContext.println(stateIndent + issueType.Name)
	}
	return success(false), nil
}

// ListLinkTypes prints the inward and outward phrase of every link type.
func ListLinkTypes(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	linkTypes, typesError := commandContext.Project.LinkTypes()
	if typesError != nil {
		return failure(exitFailure), typesError
	}
	for _, linkType := range linkTypes {
		commandContext.println(linkType.Inward)
		commandContext.println(linkType.Outward)
	}
	return success(true), nil
}
