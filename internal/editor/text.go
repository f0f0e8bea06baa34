package editor

import "strings"

// SplitIssueText splits edited text into a summary and a description.
// Leading blank lines are skipped, the first remaining line is the summary,
// blank lines after it are skipped, and the rest is the description without
// trailing newlines.
func SplitIssueText(text string) (string, string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines = skipBlankLines(lines)
	if len(lines) == 0 {
		return "", ""
	}
	summary := strings.TrimSpace(lines[0])
	description := strings.Join(skipBlankLines(lines[1:]), "\n")
	return summary, strings.TrimRight(description, "\n")
}

// JoinIssueText is the inverse of SplitIssueText, used to seed the editor.
func JoinIssueText(summary string, description string) string {
	if description == "" {
		return summary + "\n"
	}
	return summary + "\n\n" + description + "\n"
}

func skipBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return lines
}
