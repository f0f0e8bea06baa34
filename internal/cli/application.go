// Package cli wires configuration, the Jira backend and the command router into one invocation.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/jirate/internal/commands"
	"github.com/temirov/jirate/internal/config"
	"github.com/temirov/jirate/internal/customfield"
	"github.com/temirov/jirate/internal/editor"
	"github.com/temirov/jirate/internal/index"
	"github.com/temirov/jirate/internal/jira"
	"github.com/temirov/jirate/internal/output"
	"github.com/temirov/jirate/internal/router"
	"github.com/temirov/jirate/internal/services/browser"
	"github.com/temirov/jirate/internal/services/clipboard"
	"github.com/temirov/jirate/internal/tracker"
	"github.com/temirov/jirate/internal/utils"
)

const (
	rootCommandDescription = "Work with Jira issues from the terminal"

	projectFlagName        = "project"
	projectFlagShorthand   = "p"
	projectFlagDescription = "Use this Jira project instead of the default"
	configFlagName         = "config"
	configFlagDescription  = "Read the local configuration from this file"
	configFlagMetavar      = "PATH"
	versionFlagName        = "version"
	versionFlagDescription = "Print the application version and exit"

	versionTemplate         = "%s version: %s\n"
	noCommandMessage        = "No command specified"
	usageHintFormat         = "%v (run '%s --help' for usage)"
	indexUnavailableMessage = "local index unavailable"
	persistFailedMessage    = "saving local index failed"
	indexCloseFailedMessage = "closing local index failed"
	dispatchMessage         = "dispatch"
)

const (
	exitCodeSuccess  = 0
	exitCodeFailure  = 1
	exitCodeNotFound = 127
)

// ProjectSettings carries what a ProjectFactory needs to open one project.
type ProjectSettings struct {
	Jira       config.JiraConfiguration
	ProjectKey string
	Index      *index.Store
	Logger     *zap.Logger
}

// ProjectFactory opens the backend project for an invocation.
type ProjectFactory func(settings ProjectSettings) (tracker.Project, error)

// Options configures Run. Zero values select the process defaults.
type Options struct {
	// Arguments excludes the program name.
	Arguments        []string
	Output           io.Writer
	Logger           *zap.Logger
	WorkingDirectory string
	HomeDirectory    string

	OpenProject ProjectFactory
	Editor      editor.Editor
	Copier      clipboard.Copier
	Browser     browser.Opener
}

type persister interface {
	Persist() error
}

// OpenJiraProject is the default ProjectFactory.
func OpenJiraProject(settings ProjectSettings) (tracker.Project, error) {
	project, openError := jira.NewProject(jira.Options{
		BaseURL:    settings.Jira.URL,
		Token:      settings.Jira.Token,
		ProjectKey: settings.ProjectKey,
		Index:      settings.Index,
		Logger:     settings.Logger,
	})
	if openError != nil {
		return nil, openError
	}
	return project, nil
}

// NewRouter builds the command tree with the global flags and every subcommand.
func NewRouter() (*commands.Router, error) {
	application := router.New[*commands.Context](utils.ApplicationName, rootCommandDescription)
	globals := []router.ArgumentSpec{
		router.Option(projectFlagName, projectFlagShorthand, projectFlagDescription).WithCoercion(router.Uppercase),
		router.Option(configFlagName, "", configFlagDescription).WithMetavar(configFlagMetavar),
		router.Switch(versionFlagName, "", versionFlagDescription),
	}
	for _, spec := range globals {
		if registrationError := application.RegisterGlobal(spec); registrationError != nil {
			return nil, registrationError
		}
	}
	if registrationError := commands.Register(application); registrationError != nil {
		return nil, registrationError
	}
	return application, nil
}

// Run executes one invocation and returns the process exit code.
func Run(options Options) int {
	options = options.withDefaults()
	logger := options.Logger

	application, routerError := NewRouter()
	if routerError != nil {
		logger.Error(routerError.Error())
		return exitCodeFailure
	}

	namespace, leaf, parseError := application.Parse(options.Arguments)
	if errors.Is(parseError, router.ErrHelp) {
		_, _ = fmt.Fprint(options.Output, application.Usage(leaf))
		return exitCodeSuccess
	}
	if parseError != nil {
		logger.Error(fmt.Sprintf(usageHintFormat, parseError, commandDisplayPath(leaf)))
		return exitCodeFailure
	}

	if namespace.Bool(versionFlagName) {
		_, _ = fmt.Fprintf(options.Output, versionTemplate, utils.ApplicationName, utils.GetApplicationVersion())
		return exitCodeSuccess
	}
	if leaf.Handler == nil {
		_, _ = fmt.Fprintln(options.Output, noCommandMessage)
		return exitCodeSuccess
	}

	commandContext := &commands.Context{
		Output:           options.Output,
		Editor:           options.Editor,
		Copier:           options.Copier,
		Browser:          options.Browser,
		Logger:           logger,
		WorkingDirectory: options.WorkingDirectory,
		HomeDirectory:    options.HomeDirectory,
		Presenter:        output.NewIssuePresenter(options.Output, output.PresenterOptions{}),
	}

	if leaf.Name != commands.InitCommandName {
		configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
			WorkingDirectory: options.WorkingDirectory,
			ExplicitFilePath: namespace.String(configFlagName),
			HomeDirectory:    options.HomeDirectory,
		})
		if configurationError == nil {
			configurationError = configuration.Validate()
		}
		if configurationError != nil {
			logger.Error(configurationError.Error())
			return exitCodeFailure
		}

		store := openIndex(configuration.Jira.Index, logger)
		if store != nil {
			defer func() {
				if closeError := store.Close(); closeError != nil {
					logger.Warn(indexCloseFailedMessage, zap.Error(closeError))
				}
			}()
		}

		project, projectError := options.OpenProject(ProjectSettings{
			Jira:       configuration.Jira,
			ProjectKey: configuration.Jira.ProjectKey(namespace.String(projectFlagName)),
			Index:      store,
			Logger:     logger,
		})
		if projectError != nil {
			logger.Error(projectError.Error())
			return exitCodeFailure
		}
		if len(configuration.Jira.Searches) > 0 {
			project.SetUserData(tracker.UserDataSearches, configuration.Jira.Searches)
		}
		if options.Editor == nil {
			commandContext.Editor = editor.NewExternalEditor(configuration.Jira.Editor)
		}
		commandContext.Project = project
		commandContext.Presenter = newPresenter(options.Output, configuration.Jira)
	}

	if injectError := application.InjectContext(namespace, commandContext); injectError != nil {
		logger.Error(injectError.Error())
		return exitCodeFailure
	}
	logger.Debug(dispatchMessage, zap.String("command", namespace.CommandName()))
	result, dispatchError := application.Dispatch(namespace, leaf)
	exitCode := result.ExitCode
	if dispatchError != nil {
		logger.Error(dispatchError.Error())
		if exitCode == exitCodeSuccess {
			exitCode = exitCodeFor(dispatchError)
		}
	}

	if result.StateChanged {
		if saver, supportsPersist := commandContext.Project.(persister); supportsPersist {
			if persistError := saver.Persist(); persistError != nil {
				logger.Warn(persistFailedMessage, zap.Error(persistError))
			}
		}
	}
	return exitCode
}

func (options Options) withDefaults() Options {
	if options.Output == nil {
		options.Output = os.Stdout
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.OpenProject == nil {
		options.OpenProject = OpenJiraProject
	}
	if options.Copier == nil {
		options.Copier = clipboard.NewSystemClipboard()
	}
	if options.Browser == nil {
		options.Browser = browser.NewSystemBrowser()
	}
	return options
}

func newPresenter(destination io.Writer, settings config.JiraConfiguration) *output.IssuePresenter {
	palette := output.NewPalette(output.ParseColorMode(settings.Color), destination)
	width := output.TerminalWidth(destination)
	return output.NewIssuePresenter(destination, output.PresenterOptions{
		Palette:      palette,
		Markdown:     output.NewTerminalMarkdown(palette, width),
		CustomFields: settings.CustomFields,
		Evaluator:    customfield.NewEvaluator(settings.EvaluationEnabled()),
		SectionWidth: width,
	})
}

// openIndex returns nil when the index is disabled or cannot be opened; jirate then works online only.
func openIndex(settings config.IndexConfiguration, logger *zap.Logger) *index.Store {
	if !settings.IndexEnabled() {
		return nil
	}
	path, pathError := settings.ResolvePath()
	if pathError != nil {
		logger.Warn(indexUnavailableMessage, zap.Error(pathError))
		return nil
	}
	store, openError := index.Open(path)
	if openError != nil {
		logger.Warn(indexUnavailableMessage, zap.String("path", path), zap.Error(openError))
		return nil
	}
	return store
}

func exitCodeFor(err error) int {
	if errors.Is(err, tracker.ErrNotFound) {
		return exitCodeNotFound
	}
	return exitCodeFailure
}

func commandDisplayPath(leaf *router.Command[*commands.Context]) string {
	path := utils.ApplicationName
	if leaf == nil {
		return path
	}
	for _, name := range leaf.Path() {
		path += " " + name
	}
	return path
}
