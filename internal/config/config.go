// Package config loads rule files and configuration files into the settings
// consumed by the selection pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/ignore"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	errorOpenRuleFileFormat  = "opening rule file %s: %w"
	errorParseRuleFileFormat = "reading rule file %s: %w"
	warningCloseRuleFile     = "failed to close rule file"
)

// LoadRuleFile reads the rule file at ruleFilePath into a PatternSet.
// A missing rule file yields an empty set and no error.
//
// #nosec G304
func LoadRuleFile(ruleFilePath string, logger *zap.Logger) (ignore.PatternSet, error) {
	fileHandle, openFileError := os.Open(ruleFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenRuleFileFormat, ruleFilePath, openFileError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			utils.LoggerOrNop(logger).Warn(warningCloseRuleFile, zap.String("path", ruleFilePath), zap.Error(closeError))
		}
	}()

	patterns, parseError := ignore.ParsePatterns(fileHandle)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseRuleFileFormat, ruleFilePath, parseError)
	}
	return patterns, nil
}

// LoadProjectRules reads the rule file named ruleFileName from the project root.
// Absolute rule file names are used as given.
func LoadProjectRules(rootDirectoryPath string, ruleFileName string, logger *zap.Logger) (ignore.PatternSet, error) {
	if ruleFileName == "" {
		return nil, nil
	}
	ruleFilePath := ruleFileName
	if !filepath.IsAbs(ruleFilePath) {
		ruleFilePath = filepath.Join(rootDirectoryPath, ruleFileName)
	}
	return LoadRuleFile(ruleFilePath, logger)
}
