package main

import (
	"fmt"
	"os"

	"github.com/temirov/jirate/internal/cli"
	"github.com/temirov/jirate/internal/utils"
)

// main is the entry point for the jirate command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	exitCode := cli.Run(cli.Options{
		Arguments: os.Args[1:],
		Output:    os.Stdout,
		Logger:    loggerInstance,
	})
	_ = loggerInstance.Sync()
	os.Exit(exitCode)
}
