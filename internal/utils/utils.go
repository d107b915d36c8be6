// Package utils contains general helper functions used across codepack.
package utils

import (
	"path/filepath"
	"strings"
)

// Project file constants used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file read as the default rule file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the project-local configuration file.
	ConfigFileName = ".codepack.yaml"
	// GlobalConfigDirectoryName is the directory under the user configuration home holding the global configuration.
	GlobalConfigDirectoryName = "codepack"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
	// DefaultOutputFileName is the artifact written into the project root.
	DefaultOutputFileName = "!!_full_project_code.txt"
)

// PathSegmentSeparator separates segments of normalized relative paths.
const PathSegmentSeparator = "/"

// NormalizeSlashes converts both native and Windows separators to forward slashes.
func NormalizeSlashes(pathValue string) string {
	return strings.ReplaceAll(filepath.ToSlash(pathValue), "\\", PathSegmentSeparator)
}

// DeduplicatePatterns removes duplicate values from a slice while preserving order.
// The first occurrence of each unique value is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeExtension lower-cases an extension and ensures a single leading dot.
// Accepted forms are "py", ".py" and "*.py". Empty input yields an empty string.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.TrimSpace(extension)
	trimmedExtension = strings.TrimPrefix(trimmedExtension, "*")
	trimmedExtension = strings.TrimLeft(trimmedExtension, ".")
	if trimmedExtension == "" {
		return ""
	}
	return "." + strings.ToLower(trimmedExtension)
}
