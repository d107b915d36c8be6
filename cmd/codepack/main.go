package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/cli"
	"github.com/tyemirov/codepack/internal/utils"
)

// main is the entry point for the codepack command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
