package router

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHelp is returned by Parse when -h or --help was given.
	ErrHelp = errors.New("help requested")
	// ErrNoCommand is returned by Dispatch for a command without a handler.
	ErrNoCommand = errors.New("no command specified")
	// ErrNamespaceSealed is returned when a namespace is modified after dispatch started.
	ErrNamespaceSealed = errors.New("namespace is sealed")
)

const (
	parseErrorFormat        = "%s: %s"
	duplicateCommandFormat  = "command %q is already registered under %q"
	invalidPathMessage      = "command path must not be empty"
	duplicateArgumentFormat = "argument %q is declared twice for %q"
)

// ParseError describes command line input that could not be bound to a command.
type ParseError struct {
	CommandPath string
	Message     string
	Err         error
}

func (parseError *ParseError) Error() string {
	return fmt.Sprintf(parseErrorFormat, parseError.CommandPath, parseError.Message)
}

func (parseError *ParseError) Unwrap() error {
	return parseError.Err
}

func newParseError(commandPath []string, cause error, format string, arguments ...any) *ParseError {
	return &ParseError{
		CommandPath: strings.Join(commandPath, " "),
		Message:     fmt.Sprintf(format, arguments...),
		Err:         cause,
	}
}

// ConfigError reports an invalid command tree, such as duplicate sibling names.
type ConfigError struct {
	Message string
}

func (configError *ConfigError) Error() string {
	return configError.Message
}
