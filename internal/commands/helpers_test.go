package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeFixtureFiles creates every file of the map below rootDirectory, creating parent directories as needed.
func writeFixtureFiles(testingHandle *testing.T, rootDirectory string, files map[string]string) {
	testingHandle.Helper()
	for relativePath, content := range files {
		absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); mkdirError != nil {
			testingHandle.Fatalf("failed to create directory for %s: %v", relativePath, mkdirError)
		}
		if writeError := os.WriteFile(absolutePath, []byte(content), 0o644); writeError != nil {
			testingHandle.Fatalf("failed to write %s: %v", relativePath, writeError)
		}
	}
}

// newObservedLogger returns a logger whose entries are captured for assertions.
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, observedLogs := observer.New(zapcore.DebugLevel)
	return zap.New(core), observedLogs
}
