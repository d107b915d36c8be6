package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadProjectRulesReadsPatterns verifies that the rule file in the project root is parsed in order.
func TestLoadProjectRulesReadsPatterns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".gitignore"), "# build output\n/old\n\n*.log\ntodo/\n")

	patternSet, loadError := LoadProjectRules(rootDirectory, ".gitignore", nil)
	if loadError != nil {
		testingHandle.Fatalf("LoadProjectRules failed: %v", loadError)
	}

	expectedGlobs := []string{"old", "*.log", "todo"}
	if !reflect.DeepEqual(patternSet.Globs(), expectedGlobs) {
		testingHandle.Fatalf("unexpected globs: got %v want %v", patternSet.Globs(), expectedGlobs)
	}
	if !patternSet[0].Anchored {
		testingHandle.Fatalf("expected first pattern to be anchored")
	}
}

// TestLoadProjectRulesMissingFile verifies that an absent rule file yields an empty set.
func TestLoadProjectRulesMissingFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	patternSet, loadError := LoadProjectRules(rootDirectory, ".gitignore", nil)
	if loadError != nil {
		testingHandle.Fatalf("expected no error for missing rule file, got %v", loadError)
	}
	if len(patternSet) != 0 {
		testingHandle.Fatalf("expected empty pattern set, got %v", patternSet)
	}
}

// TestLoadProjectRulesAbsolutePath verifies that absolute rule file paths bypass the project root.
func TestLoadProjectRulesAbsolutePath(testingHandle *testing.T) {
	rulesDirectory := testingHandle.TempDir()
	ruleFilePath := filepath.Join(rulesDirectory, "shared.ignore")
	writeTestFile(testingHandle, ruleFilePath, "generated\n")

	patternSet, loadError := LoadProjectRules(testingHandle.TempDir(), ruleFilePath, nil)
	if loadError != nil {
		testingHandle.Fatalf("LoadProjectRules failed: %v", loadError)
	}
	if len(patternSet) != 1 || patternSet[0].Glob != "generated" {
		testingHandle.Fatalf("unexpected patterns: %v", patternSet)
	}
}

// TestSettingsBlacklistIncludesOwnArtifacts verifies that the output and configuration files are never selected.
func TestSettingsBlacklistIncludesOwnArtifacts(testingHandle *testing.T) {
	settings := DefaultSettings()
	settings.OutputFileName = filepath.Join("out", "bundle.txt")

	blacklist := settings.Blacklist()
	for _, expectedName := range []string{"bundle.txt", ".codepack.yaml", ".git", "node_modules"} {
		if !utilsContains(blacklist, expectedName) {
			testingHandle.Fatalf("expected %s in blacklist %v", expectedName, blacklist)
		}
	}
	if executablePath, executableError := os.Executable(); executableError == nil {
		if executableName := filepath.Base(executablePath); utilsContains(blacklist, executableName) {
			testingHandle.Fatalf("executable name %s must not be blacklisted: %v", executableName, blacklist)
		}
	}
}

// TestSettingsExtensionSet verifies extension normalization and the empty allow-list.
func TestSettingsExtensionSet(testingHandle *testing.T) {
	settings := DefaultSettings()
	settings.AllowedExtensions = []string{"PY", ".Md", ""}
	extensionSet := settings.ExtensionSet()
	if len(extensionSet) != 2 {
		testingHandle.Fatalf("unexpected extension set: %v", extensionSet)
	}
	if _, found := extensionSet[".py"]; !found {
		testingHandle.Fatalf("expected .py in %v", extensionSet)
	}

	settings.AllowedExtensions = nil
	if len(settings.ExtensionSet()) != 0 {
		testingHandle.Fatalf("expected empty extension set")
	}
}

// TestSettingsOutputPath verifies artifact path resolution.
func TestSettingsOutputPath(testingHandle *testing.T) {
	settings := DefaultSettings()
	rootDirectory := testingHandle.TempDir()
	if outputPath := settings.OutputPath(rootDirectory); outputPath != filepath.Join(rootDirectory, "!!_full_project_code.txt") {
		testingHandle.Fatalf("unexpected output path %s", outputPath)
	}
	absoluteOutput := filepath.Join(testingHandle.TempDir(), "bundle.txt")
	settings.OutputFileName = absoluteOutput
	if outputPath := settings.OutputPath(rootDirectory); outputPath != absoluteOutput {
		testingHandle.Fatalf("expected absolute output path to be kept, got %s", outputPath)
	}
}
