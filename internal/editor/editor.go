// Package editor collects free text from the user's editor.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrCancelled is returned when the editor leaves nothing but whitespace.
var ErrCancelled = errors.New("edit cancelled")

const (
	visualEnvironmentVariable = "VISUAL"
	editorEnvironmentVariable = "EDITOR"
	fallbackEditorCommand     = "vi"
	temporaryFilePattern      = "jirate-*.md"

	splitCommandErrorFormat  = "parse editor command %q: %w"
	emptyCommandErrorFormat  = "editor command %q is empty"
	temporaryFileErrorFormat = "prepare edit buffer: %w"
	runEditorErrorFormat     = "run editor %s: %w"
	readBufferErrorFormat    = "read edit buffer: %w"
)

// Editor returns the text a user produced starting from initial.
type Editor interface {
	Edit(initial string) (string, error)
}

// Func adapts a function to Editor.
type Func func(initial string) (string, error)

// Edit calls function.
func (function Func) Edit(initial string) (string, error) {
	return function(initial)
}

// ExternalEditor runs an interactive editor on a temporary file and waits for it to exit.
type ExternalEditor struct {
	command string
	input   io.Reader
	output  io.Writer
	errors  io.Writer
}

// NewExternalEditor uses configured when set, then $VISUAL, then $EDITOR, then vi.
func NewExternalEditor(configured string) *ExternalEditor {
	return &ExternalEditor{
		command: ResolveCommand(configured),
		input:   os.Stdin,
		output:  os.Stdout,
		errors:  os.Stderr,
	}
}

// ResolveCommand picks the editor command line.
func ResolveCommand(configured string) string {
	for _, candidate := range []string{configured, os.Getenv(visualEnvironmentVariable), os.Getenv(editorEnvironmentVariable)} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return fallbackEditorCommand
}

// Edit writes initial to a temporary file, opens it in the editor and returns the saved content.
func (external *ExternalEditor) Edit(initial string) (string, error) {
	words, splitError := shellquote.Split(external.command)
	if splitError != nil {
		return "", fmt.Errorf(splitCommandErrorFormat, external.command, splitError)
	}
	if len(words) == 0 {
		return "", fmt.Errorf(emptyCommandErrorFormat, external.command)
	}

	buffer, createError := os.CreateTemp("", temporaryFilePattern)
	if createError != nil {
		return "", fmt.Errorf(temporaryFileErrorFormat, createError)
	}
	bufferPath := buffer.Name()
	defer os.Remove(bufferPath)
	if _, writeError := buffer.WriteString(initial); writeError != nil {
		buffer.Close()
		return "", fmt.Errorf(temporaryFileErrorFormat, writeError)
	}
	if closeError := buffer.Close(); closeError != nil {
		return "", fmt.Errorf(temporaryFileErrorFormat, closeError)
	}

	process := exec.Command(words[0], append(words[1:], bufferPath)...)
	process.Stdin = external.input
	process.Stdout = external.output
	process.Stderr = external.errors
	if runError := process.Run(); runError != nil {
		return "", fmt.Errorf(runEditorErrorFormat, words[0], runError)
	}

	content, readError := os.ReadFile(bufferPath)
	if readError != nil {
		return "", fmt.Errorf(readBufferErrorFormat, readError)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", ErrCancelled
	}
	return string(content), nil
}
