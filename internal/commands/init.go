package commands

import (
	"github.com/temirov/jirate/internal/config"
	"github.com/temirov/jirate/internal/router"
)

const wroteConfigurationFormat = "Wrote %s\n"

// InitConfiguration writes a configuration template. It runs without a project.
func InitConfiguration(namespace *Namespace) (router.Result, error) {
	commandContext := namespace.Context()
	target := config.InitTargetLocal
	if namespace.Bool(argumentGlobal) {
		target = config.InitTargetGlobal
	}
	path, initError := config.InitializeConfiguration(config.InitOptions{
		Target:           target,
		Force:            namespace.Bool(argumentForce),
		WorkingDirectory: commandContext.WorkingDirectory,
		HomeDirectory:    commandContext.HomeDirectory,
	})
	if initError != nil {
		return failure(exitFailure), initError
	}
	commandContext.printf(wroteConfigurationFormat, path)
	return success(false), nil
}
