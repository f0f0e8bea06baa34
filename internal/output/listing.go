package output

import (
	"io"
	"strings"

	"github.com/temirov/jirate/internal/tracker"
)

const (
	listingIndent    = "  "
	labelsOpenQuote  = "["
	labelsCloseQuote = "]"
)

// ListingOptions controls RenderIssueList.
type ListingOptions struct {
	// StatusFilter keeps only issues whose normalized status name matches.
	StatusFilter string
	ShowLabels   bool
}

// PrintIssueList writes issues grouped by status.
func (presenter *IssuePresenter) PrintIssueList(issues []tracker.Issue, options ListingOptions) error {
	_, writeError := io.WriteString(presenter.destination, presenter.RenderIssueList(issues, options))
	return writeError
}

// RenderIssueList groups issues under their status name, statuses in order of
// first appearance, keys aligned across the whole listing.
func (presenter *IssuePresenter) RenderIssueList(issues []tracker.Issue, options ListingOptions) string {
	filter := tracker.NormalizeName(options.StatusFilter)
	var statusOrder []tracker.Status
	grouped := map[string][]tracker.Issue{}
	keyWidth := 0
	for _, issue := range issues {
		if filter != "" && tracker.NormalizeName(issue.Status.Name) != filter {
			continue
		}
		if _, seen := grouped[issue.Status.Name]; !seen {
			statusOrder = append(statusOrder, issue.Status)
		}
		grouped[issue.Status.Name] = append(grouped[issue.Status.Name], issue)
		if width := textWidth(issue.Key); width > keyWidth {
			keyWidth = width
		}
	}

	var builder strings.Builder
	for _, status := range statusOrder {
		builder.WriteString(presenter.palette.Foreground(status.Name, status.CategoryColor))
		builder.WriteString("\n")
		for _, issue := range grouped[status.Name] {
			builder.WriteString(listingIndent)
			builder.WriteString(PadRight(issue.Key, keyWidth))
			builder.WriteString(" ")
			if options.ShowLabels && len(issue.Labels) > 0 {
				builder.WriteString(labelsOpenQuote + strings.Join(issue.Labels, " ") + labelsCloseQuote)
				builder.WriteString(" ")
			}
			builder.WriteString(issue.Summary)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}
