package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/jirate/internal/customfield"
	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/utils"
)

const (
	labelType        = "Type"
	labelCreated     = "Created"
	labelParent      = "Parent"
	labelStatus      = "Status"
	labelCreator     = "Creator"
	labelReporter    = "Reporter"
	labelID          = "ID"
	labelURL         = "URL"
	labelAssignee    = "Assignee"
	labelLabels      = "Labels"
	labelNextStates  = "Next States"
	sectionLinks     = "Issue Links"
	sectionSubtasks  = "Sub-tasks"
	sectionComments  = "Comments"
	updatedFormat    = " (Updated %s)"
	userFormat       = "%s - %s"
	commentFormat    = "%s • %s • ID: %s"
	noTransitions    = "No valid transitions; cannot alter status"
	transitionsError = "unavailable: %v"
	evaluationFailed = "evaluation refused: %v"
)

// TransitionSource lists the transitions available to an issue.
type TransitionSource interface {
	Transitions(key string) ([]tracker.Transition, error)
}

// PresenterOptions configures an IssuePresenter.
type PresenterOptions struct {
	Palette      *Palette
	Markdown     MarkdownRenderer
	CustomFields []tracker.CustomFieldSpec
	Evaluator    *customfield.Evaluator
	SectionWidth int
}

// IssuePresenter renders full issue views and aligned link and sub-task blocks.
type IssuePresenter struct {
	destination  io.Writer
	palette      *Palette
	markdown     MarkdownRenderer
	customFields []tracker.CustomFieldSpec
	evaluator    *customfield.Evaluator
	sectionWidth int
}

// NewIssuePresenter creates a presenter writing to destination.
func NewIssuePresenter(destination io.Writer, options PresenterOptions) *IssuePresenter {
	presenter := &IssuePresenter{
		destination:  destination,
		palette:      options.Palette,
		markdown:     options.Markdown,
		customFields: options.CustomFields,
		evaluator:    options.Evaluator,
		sectionWidth: options.SectionWidth,
	}
	if presenter.palette == nil {
		presenter.palette = PlainPalette()
	}
	if presenter.markdown == nil {
		presenter.markdown = PlainMarkdown{}
	}
	if presenter.sectionWidth <= 0 {
		presenter.sectionWidth = defaultSectionWidth
	}
	return presenter
}

// Palette returns the palette used for status coloring.
func (presenter *IssuePresenter) Palette() *Palette {
	return presenter.palette
}

// PrintIssue writes the full view of issue. Next states are fetched from
// transitions only when verbose is set.
func (presenter *IssuePresenter) PrintIssue(transitions TransitionSource, issue *tracker.Issue, verbose bool) error {
	_, writeError := io.WriteString(presenter.destination, presenter.RenderIssue(transitions, issue, verbose))
	return writeError
}

// RenderIssue returns the text PrintIssue writes.
func (presenter *IssuePresenter) RenderIssue(transitions TransitionSource, issue *tracker.Issue, verbose bool) string {
	visibleFields := presenter.visibleCustomFields()
	labelWidth := textWidth(labelNextStates)
	if keyWidth := textWidth(issue.Key); keyWidth > labelWidth {
		labelWidth = keyWidth
	}
	for _, field := range visibleFields {
		if nameWidth := textWidth(field.Name); nameWidth > labelWidth {
			labelWidth = nameWidth
		}
	}

	var lines []string
	addLine := func(label string, value string) {
		lines = append(lines, strings.Join([]string{PadRight(label, labelWidth), ColumnSeparator, value}, " "))
	}

	addLine(issue.Key, presenter.palette.Emphasis(issue.Summary))
	addLine(labelType, issue.Type)

	created := utils.FormatTimestamp(issue.Created)
	if !issue.Updated.IsZero() && !issue.Updated.Equal(issue.Created) {
		created += fmt.Sprintf(updatedFormat, utils.FormatTimestamp(issue.Updated))
	}
	addLine(labelCreated, created)

	if issue.Parent != "" {
		addLine(labelParent, issue.Parent)
	}
	addLine(labelStatus, presenter.palette.Badge(issue.Status.Name, issue.Status.CategoryColor))

	if verbose {
		if issue.Creator != nil {
			addLine(labelCreator, formatUser(*issue.Creator))
		}
		if issue.Reporter != nil && (issue.Creator == nil || issue.Reporter.Email != issue.Creator.Email) {
			addLine(labelReporter, formatUser(*issue.Reporter))
		}
		addLine(labelID, issue.ID)
		addLine(labelURL, issue.Permalink())
	}

	if issue.Assignee != nil && (issue.Assignee.Name != "" || issue.Assignee.Email != "") {
		addLine(labelAssignee, formatUser(*issue.Assignee))
	}
	if len(issue.Labels) > 0 {
		addLine(labelLabels, strings.Join(issue.Labels, " "))
	}

	if verbose && transitions != nil {
		addLine(labelNextStates, describeTransitions(transitions, issue.Key))
	}

	for _, field := range visibleFields {
		value, present := issue.CustomField(field.ID)
		if !present {
			continue
		}
		display, shown := presenter.customFieldDisplay(field, value)
		if !shown {
			continue
		}
		addLine(field.Name, display)
	}

	lines = append(lines, "")
	if strings.TrimSpace(issue.Description) != "" {
		lines = append(lines, presenter.markdown.Render(issue.Description), "")
	}

	if len(issue.Links) > 0 {
		lines = append(lines, presenter.header(sectionLinks))
		lines = append(lines, presenter.LinkRows(issue.Links)...)
		lines = append(lines, "")
	}
	if len(issue.Subtasks) > 0 {
		lines = append(lines, presenter.header(sectionSubtasks))
		lines = append(lines, presenter.SubtaskRows(issue.Subtasks)...)
		lines = append(lines, "")
	}
	if len(issue.Comments) > 0 {
		lines = append(lines, presenter.header(sectionComments))
		for _, comment := range issue.Comments {
			stamp := comment.Updated
			if stamp.IsZero() {
				stamp = comment.Created
			}
			lines = append(lines, fmt.Sprintf(commentFormat, utils.FormatTimestamp(stamp), formatUser(comment.Author), comment.ID))
			lines = append(lines, presenter.markdown.Render(comment.Body), "")
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// LinkRows renders links as "<relation> <key> ┃ <status> ┃ <summary>" with
// both leading columns aligned across the block.
func (presenter *IssuePresenter) LinkRows(links []tracker.Link) []string {
	rows := make([]ColumnRow, 0, len(links))
	colors := make([]string, 0, len(links))
	for _, link := range links {
		rows = append(rows, ColumnRow{
			Left:   link.Relation + " " + link.TargetKey,
			Right:  link.TargetStatus.Name,
			Detail: link.TargetSummary,
		})
		colors = append(colors, link.TargetStatus.CategoryColor)
	}
	return presenter.alignedRows(rows, colors)
}

// SubtaskRows renders sub-tasks as "<key> ┃ <status> ┃ <summary>".
func (presenter *IssuePresenter) SubtaskRows(subtasks []tracker.Subtask) []string {
	rows := make([]ColumnRow, 0, len(subtasks))
	colors := make([]string, 0, len(subtasks))
	for _, subtask := range subtasks {
		rows = append(rows, ColumnRow{Left: subtask.Key, Right: subtask.Status.Name, Detail: subtask.Summary})
		colors = append(colors, subtask.Status.CategoryColor)
	}
	return presenter.alignedRows(rows, colors)
}

func (presenter *IssuePresenter) alignedRows(rows []ColumnRow, colors []string) []string {
	columns := MeasureColumns(rows)
	formatted := make([]string, 0, len(rows))
	for index, row := range rows {
		categoryColor := colors[index]
		formatted = append(formatted, columns.Format(row, ColumnSeparator, func(cell string) string {
			return presenter.palette.Foreground(cell, categoryColor)
		}))
	}
	return formatted
}

func (presenter *IssuePresenter) header(title string) string {
	return SectionHeader(title, presenter.sectionWidth, presenter.palette)
}

func (presenter *IssuePresenter) visibleCustomFields() []tracker.CustomFieldSpec {
	visible := make([]tracker.CustomFieldSpec, 0, len(presenter.customFields))
	for _, field := range presenter.customFields {
		if field.Visible() {
			visible = append(visible, field)
		}
	}
	return visible
}

// customFieldDisplay returns the text shown for a custom field and whether it is shown at all.
func (presenter *IssuePresenter) customFieldDisplay(field tracker.CustomFieldSpec, value any) (string, bool) {
	if field.Code == "" || !presenter.evaluator.Enabled() {
		if value == nil {
			return "", false
		}
		return FormatFieldValue(value), true
	}
	result, evaluateError := presenter.evaluator.Evaluate(field.Code, value)
	if evaluateError != nil {
		return fmt.Sprintf(evaluationFailed, evaluateError), true
	}
	if result == nil {
		return "", false
	}
	return FormatFieldValue(result), true
}

// FormatFieldValue renders a raw field value. Composite values are shown as compact JSON.
func FormatFieldValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case map[string]any, []any:
		encoded, encodeError := json.Marshal(typed)
		if encodeError != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

func formatUser(user tracker.User) string {
	return fmt.Sprintf(userFormat, user.Email, user.DisplayName)
}

func describeTransitions(transitions TransitionSource, key string) string {
	available, transitionsLookupError := transitions.Transitions(key)
	if transitionsLookupError != nil {
		return fmt.Sprintf(transitionsError, transitionsLookupError)
	}
	if len(available) == 0 {
		return noTransitions
	}
	names := make([]string, 0, len(available))
	for _, transition := range available {
		names = append(names, transition.Name)
	}
	return strings.Join(names, ", ")
}
