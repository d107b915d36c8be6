// Package commands contains the selection pipeline: the pruning walk, the
// content aggregation and the packer that ties them to one artifact.
package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/ignore"
	"github.com/tyemirov/codepack/internal/preset"
	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorStatRootFormat      = "stat root %s: %w"
	errorRootNotDirectory    = "root %s is not a directory"
	errorReadRootFormat      = "reading root directory %s: %w"
	warningUnreadableEntry   = "skipping unreadable entry"
	debugPrunedDirectory     = "pruned ignored directory"
	debugSkippedLinkedFolder = "not following symbolic link to directory"
	debugSkippedExecutable   = "skipping the running executable"
)

// Walker performs the pruning directory walk that selects project files.
type Walker struct {
	matcher           *ignore.Matcher
	preset            preset.Preset
	allowedExtensions map[string]struct{}
	executableInfo    fs.FileInfo
	logger            *zap.Logger
}

// NewWalker builds a walker. An empty allowedExtensions set disables extension filtering.
func NewWalker(matcher *ignore.Matcher, selectedPreset preset.Preset, allowedExtensions map[string]struct{}, logger *zap.Logger) *Walker {
	if matcher == nil {
		matcher = ignore.NewMatcher(nil, ignore.DefaultBlacklist)
	}
	return &Walker{
		matcher:           matcher,
		preset:            selectedPreset,
		allowedExtensions: allowedExtensions,
		executableInfo:    runningExecutableInfo(),
		logger:            utils.LoggerOrNop(logger),
	}
}

// runningExecutableInfo identifies the current binary so it is never packed,
// whatever its name. Nil when the executable cannot be located.
func runningExecutableInfo() fs.FileInfo {
	executablePath, executableError := os.Executable()
	if executableError != nil {
		return nil
	}
	executableInfo, statError := os.Stat(executablePath)
	if statError != nil {
		return nil
	}
	return executableInfo
}

// Collect returns the sorted relative paths of every selected file under rootDirectoryPath.
func (walker *Walker) Collect(rootDirectoryPath string) ([]string, error) {
	candidates, collectError := walker.CollectCandidates(rootDirectoryPath)
	if collectError != nil {
		return nil, collectError
	}
	selectedPaths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		selectedPaths = append(selectedPaths, candidate.RelativePath)
	}
	return selectedPaths, nil
}

// CollectCandidates walks rootDirectoryPath depth first and returns the files
// that pass the ignore, extension and preset filters, sorted by relative path.
//
// Directories are checked against the ignore matcher before they are pushed on
// the work stack, so an ignored directory is never opened. Entries that cannot
// be read are logged and skipped; only an unusable root is an error.
func (walker *Walker) CollectCandidates(rootDirectoryPath string) ([]types.FileCandidate, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectory, absoluteRootPath)
	}

	var candidates []types.FileCandidate
	pendingDirectories := []string{""}
	for len(pendingDirectories) > 0 {
		relativeDirectory := pendingDirectories[len(pendingDirectories)-1]
		pendingDirectories = pendingDirectories[:len(pendingDirectories)-1]

		absoluteDirectory := filepath.Join(absoluteRootPath, filepath.FromSlash(relativeDirectory))
		directoryEntries, readDirectoryError := os.ReadDir(absoluteDirectory)
		if readDirectoryError != nil {
			if relativeDirectory == "" {
				return nil, fmt.Errorf(errorReadRootFormat, absoluteRootPath, readDirectoryError)
			}
			walker.warnUnreadable(relativeDirectory, readDirectoryError)
			continue
		}

		var subdirectories []string
		for _, directoryEntry := range directoryEntries {
			relativePath := path.Join(relativeDirectory, directoryEntry.Name())
			if directoryEntry.IsDir() {
				if walker.matcher.IsIgnored(relativePath) {
					walker.logger.Debug(debugPrunedDirectory, zap.String("path", relativePath))
					continue
				}
				subdirectories = append(subdirectories, relativePath)
				continue
			}
			candidate, selected := walker.inspectFile(absoluteDirectory, relativePath, directoryEntry)
			if selected {
				candidates = append(candidates, candidate)
			}
		}

		for index := len(subdirectories) - 1; index >= 0; index-- {
			pendingDirectories = append(pendingDirectories, subdirectories[index])
		}
	}

	sort.Slice(candidates, func(left, right int) bool {
		return candidates[left].RelativePath < candidates[right].RelativePath
	})
	return candidates, nil
}

// inspectFile applies the file-level filters to one non-directory entry.
func (walker *Walker) inspectFile(absoluteDirectory string, relativePath string, directoryEntry fs.DirEntry) (types.FileCandidate, bool) {
	if walker.matcher.IsIgnored(relativePath) {
		return types.FileCandidate{}, false
	}
	extension := FileExtension(directoryEntry.Name())
	if !walker.extensionAllowed(extension) {
		return types.FileCandidate{}, false
	}
	if !walker.preset.Matches(relativePath) {
		return types.FileCandidate{}, false
	}

	absolutePath := filepath.Join(absoluteDirectory, directoryEntry.Name())
	var fileInfo fs.FileInfo
	var infoError error
	if directoryEntry.Type()&fs.ModeSymlink != 0 {
		fileInfo, infoError = os.Stat(absolutePath)
	} else {
		fileInfo, infoError = directoryEntry.Info()
	}
	if infoError != nil {
		walker.warnUnreadable(relativePath, infoError)
		return types.FileCandidate{}, false
	}
	if fileInfo.IsDir() {
		walker.logger.Debug(debugSkippedLinkedFolder, zap.String("path", relativePath))
		return types.FileCandidate{}, false
	}
	if walker.executableInfo != nil && os.SameFile(fileInfo, walker.executableInfo) {
		walker.logger.Debug(debugSkippedExecutable, zap.String("path", relativePath))
		return types.FileCandidate{}, false
	}

	return types.FileCandidate{
		AbsolutePath: absolutePath,
		RelativePath: relativePath,
		Extension:    extension,
		SizeBytes:    fileInfo.Size(),
	}, true
}

func (walker *Walker) extensionAllowed(extension string) bool {
	if len(walker.allowedExtensions) == 0 {
		return true
	}
	_, allowed := walker.allowedExtensions[extension]
	return allowed
}

func (walker *Walker) warnUnreadable(relativePath string, cause error) {
	walker.logger.Warn(warningUnreadableEntry, zap.String("path", relativePath), zap.Error(cause))
}

// FileExtension returns the lower-cased extension of name. Leading dots are
// part of the name, so ".bashrc" has no extension.
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(strings.TrimLeft(name, ".")))
}
