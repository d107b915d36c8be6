package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/config"
	"github.com/tyemirov/codepack/internal/ignore"
	"github.com/tyemirov/codepack/internal/output"
	"github.com/tyemirov/codepack/internal/preset"
	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

// ErrEmptySelection is returned when no file survives the filters. No artifact is written in that case.
var ErrEmptySelection = errors.New("no files matched the selection")

const (
	errorLoadRulesFormat    = "loading ignore rules: %w"
	errorCreateOutputFormat = "creating output file %s: %w"
	errorWriteTreeFormat    = "writing directory structure: %w"
	errorFlushOutputFormat  = "flushing output file %s: %w"
	errorCloseOutputFormat  = "closing output file %s: %w"
	errorStatOutputFormat   = "stat output file %s: %w"
	warningUnknownPreset    = "unknown preset, using the whole project"
	debugLoadedRules        = "loaded ignore rules"
)

// Selection is the ordered result of the walk for one root.
type Selection struct {
	Root   string
	Preset preset.Preset
	Paths  []string
}

// Packer runs the whole pipeline: rules, walk, tree and content aggregation.
type Packer struct {
	settings config.Settings
	logger   *zap.Logger
}

// NewPacker binds the run settings to a packer.
func NewPacker(settings config.Settings, logger *zap.Logger) *Packer {
	return &Packer{
		settings: settings,
		logger:   utils.LoggerOrNop(logger),
	}
}

// Select loads the root's rule file, resolves the preset and walks the tree.
func (packer *Packer) Select(rootDirectoryPath string) (Selection, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return Selection{}, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	patterns, rulesError := config.LoadProjectRules(absoluteRootPath, packer.settings.RuleFileName, packer.logger)
	if rulesError != nil {
		return Selection{}, fmt.Errorf(errorLoadRulesFormat, rulesError)
	}
	packer.logger.Debug(debugLoadedRules, zap.String("file", packer.settings.RuleFileName), zap.Strings("patterns", patterns.Globs()))
	selectedPreset, recognized := packer.settings.Presets.Resolve(packer.settings.PresetName)
	if !recognized {
		packer.logger.Warn(warningUnknownPreset, zap.String("preset", packer.settings.PresetName), zap.Strings("available", packer.settings.Presets.Names()))
	}

	matcher := ignore.NewMatcher(patterns, packer.settings.Blacklist())
	walker := NewWalker(matcher, selectedPreset, packer.settings.ExtensionSet(), packer.logger)
	selectedPaths, collectError := walker.Collect(absoluteRootPath)
	if collectError != nil {
		return Selection{}, collectError
	}
	return Selection{Root: absoluteRootPath, Preset: selectedPreset, Paths: selectedPaths}, nil
}

// Pack writes the artifact for rootDirectoryPath and returns its summary.
// When nothing is selected it returns ErrEmptySelection without touching the output file.
func (packer *Packer) Pack(rootDirectoryPath string) (types.PackSummary, error) {
	selection, selectError := packer.Select(rootDirectoryPath)
	if selectError != nil {
		return types.PackSummary{}, selectError
	}
	if len(selection.Paths) == 0 {
		return types.PackSummary{}, ErrEmptySelection
	}

	outputPath := packer.settings.OutputPath(selection.Root)
	result, writeError := packer.writeArtifact(outputPath, selection)
	if writeError != nil {
		return types.PackSummary{}, writeError
	}
	outputInfo, statError := os.Stat(outputPath)
	if statError != nil {
		return types.PackSummary{}, fmt.Errorf(errorStatOutputFormat, outputPath, statError)
	}
	return types.PackSummary{
		OutputPath:    outputPath,
		PresetName:    selection.Preset.Name,
		SelectedFiles: len(selection.Paths),
		WrittenFiles:  result.Written,
		Skipped:       result.Skipped,
		TotalBytes:    outputInfo.Size(),
	}, nil
}

func (packer *Packer) writeArtifact(outputPath string, selection Selection) (result AggregateResult, err error) {
	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return AggregateResult{}, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	bufferedWriter := bufio.NewWriter(outputFile)
	defer func() {
		if flushError := bufferedWriter.Flush(); flushError != nil && err == nil {
			err = fmt.Errorf(errorFlushOutputFormat, outputPath, flushError)
		}
		if closeError := outputFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
	}()

	if treeError := output.WriteDirectoryStructure(bufferedWriter, selection.Paths); treeError != nil {
		return AggregateResult{}, fmt.Errorf(errorWriteTreeFormat, treeError)
	}
	aggregator := NewAggregator(packer.settings.MaxFileSizeBytes, packer.logger)
	return aggregator.Aggregate(selection.Root, selection.Paths, bufferedWriter)
}
