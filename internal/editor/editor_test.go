package editor_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/jirate/internal/editor"
)

func TestSplitIssueText(testingInstance *testing.T) {
	testingInstance.Parallel()

	testCases := []struct {
		name                string
		text                string
		expectedSummary     string
		expectedDescription string
	}{
		{name: "summary_only", text: "Fix crash\n", expectedSummary: "Fix crash"},
		{name: "leading_blank_lines", text: "\n\n  \nFix crash\n\nDetails here\n", expectedSummary: "Fix crash", expectedDescription: "Details here"},
		{name: "multi_line_description", text: "Title\n\n\nfirst\n\nsecond\n\n\n", expectedSummary: "Title", expectedDescription: "first\n\nsecond"},
		{name: "windows_newlines", text: "Title\r\n\r\nbody\r\n", expectedSummary: "Title", expectedDescription: "body"},
		{name: "blank", text: "\n \n", expectedSummary: "", expectedDescription: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			summary, description := editor.SplitIssueText(testCase.text)
			if summary != testCase.expectedSummary || description != testCase.expectedDescription {
				testingInstance.Fatalf("expected (%q, %q), got (%q, %q)", testCase.expectedSummary, testCase.expectedDescription, summary, description)
			}
		})
	}
}

func TestJoinIssueTextRoundTrip(testingInstance *testing.T) {
	testingInstance.Parallel()

	summary, description := editor.SplitIssueText(editor.JoinIssueText("Crash on startup", "Steps:\n\n1. run"))
	if summary != "Crash on startup" || description != "Steps:\n\n1. run" {
		testingInstance.Fatalf("round trip changed text: %q / %q", summary, description)
	}
}

func TestResolveCommandPrefersConfiguredEditor(testingInstance *testing.T) {
	testingInstance.Setenv("VISUAL", "visual-editor")
	testingInstance.Setenv("EDITOR", "plain-editor")

	if command := editor.ResolveCommand("configured --wait"); command != "configured --wait" {
		testingInstance.Fatalf("expected configured editor, got %q", command)
	}
	if command := editor.ResolveCommand(""); command != "visual-editor" {
		testingInstance.Fatalf("expected VISUAL, got %q", command)
	}
	testingInstance.Setenv("VISUAL", "")
	if command := editor.ResolveCommand(""); command != "plain-editor" {
		testingInstance.Fatalf("expected EDITOR, got %q", command)
	}
	testingInstance.Setenv("EDITOR", "")
	if command := editor.ResolveCommand(""); command != "vi" {
		testingInstance.Fatalf("expected vi fallback, got %q", command)
	}
}

func writeScript(testingInstance *testing.T, body string) string {
	testingInstance.Helper()
	scriptPath := filepath.Join(testingInstance.TempDir(), "fake-editor.sh")
	if writeError := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+body+"\n"), 0o755); writeError != nil {
		testingInstance.Fatalf("write script: %v", writeError)
	}
	return scriptPath
}

func TestExternalEditorReturnsSavedText(testingInstance *testing.T) {
	if _, lookupError := os.Stat("/bin/sh"); lookupError != nil {
		testingInstance.Skip("requires /bin/sh")
	}
	scriptPath := writeScript(testingInstance, `printf 'Edited summary\n' >> "$1"`)

	edited, editError := editor.NewExternalEditor(scriptPath).Edit("Original\n")
	if editError != nil {
		testingInstance.Fatalf("edit: %v", editError)
	}
	if edited != "Original\nEdited summary\n" {
		testingInstance.Fatalf("unexpected edited text %q", edited)
	}
}

func TestExternalEditorWhitespaceCancels(testingInstance *testing.T) {
	if _, lookupError := os.Stat("/bin/sh"); lookupError != nil {
		testingInstance.Skip("requires /bin/sh")
	}
	scriptPath := writeScript(testingInstance, `printf '  \n\n' > "$1"`)

	_, editError := editor.NewExternalEditor(scriptPath).Edit("Original\n")
	if !errors.Is(editError, editor.ErrCancelled) {
		testingInstance.Fatalf("expected ErrCancelled, got %v", editError)
	}
}
