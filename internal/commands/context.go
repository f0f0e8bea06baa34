// Package commands implements the jirate subcommands on top of a tracker.Project.
package commands

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/editor"
	"github.com/temirov/jirate/internal/index"
	"github.com/temirov/jirate/internal/output"
	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/services/browser"
	"github.com/temirov/jirate/internal/services/clipboard"
	"github.com/temirov/jirate/internal/tracker"
)

// Context is injected into every namespace before dispatch.
type Context struct {
	Project   tracker.Project
	Presenter *output.IssuePresenter
	Output    io.Writer
	Editor    editor.Editor
	Copier    clipboard.Copier
	Browser   browser.Opener
	Logger    *zap.Logger

	// WorkingDirectory and HomeDirectory locate configuration files for init.
	WorkingDirectory string
	HomeDirectory    string
}

// Namespace is the parsed invocation handed to handlers.
type Namespace = router.Namespace[*Context]

// Router is the command router specialised to Context.
type Router = router.Router[*Context]

// CachedLister is implemented by projects that keep a local copy of their listings.
type CachedLister interface {
	CachedList(userID string) (index.Snapshot, bool, error)
}

func (commandContext *Context) printf(format string, arguments ...any) {
	_, _ = fmt.Fprintf(commandContext.Output, format, arguments...)
}

func (commandContext *Context) println(arguments ...any) {
	_, _ = fmt.Fprintln(commandContext.Output, arguments...)
}

func (commandContext *Context) logger() *zap.Logger {
	if commandContext.Logger == nil {
		return zap.NewNop()
	}
	return commandContext.Logger
}

func success(stateChanged bool) router.Result {
	return router.Result{ExitCode: exitSuccess, StateChanged: stateChanged}
}

func failure(exitCode int) router.Result {
	return router.Result{ExitCode: exitCode}
}
