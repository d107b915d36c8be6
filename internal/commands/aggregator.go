package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/output"
	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	errorWriteSectionFormat  = "writing section for %s: %w"
	warningOversizeFile      = "skipping file larger than the size limit"
	warningUndecodableFile   = "skipping file that is not UTF-8 text"
	warningUnreadableContent = "skipping file that could not be read"
)

// AggregateResult reports how many sections were written and which files were left out.
type AggregateResult struct {
	Written int
	Skipped []types.SkippedFile
}

// Aggregator concatenates selected file contents into the artifact body.
type Aggregator struct {
	maxFileSizeBytes int64
	logger           *zap.Logger
}

// NewAggregator builds an aggregator. A non-positive maxFileSizeBytes disables the size cutoff.
func NewAggregator(maxFileSizeBytes int64, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		maxFileSizeBytes: maxFileSizeBytes,
		logger:           utils.LoggerOrNop(logger),
	}
}

// Aggregate writes one section per readable text file of relativePaths, in order.
// Oversize, unreadable and non-text files are logged and recorded as skipped.
// A failure to write to writer aborts the run.
func (aggregator *Aggregator) Aggregate(rootDirectoryPath string, relativePaths []string, writer io.Writer) (AggregateResult, error) {
	var result AggregateResult
	for _, relativePath := range relativePaths {
		absolutePath := filepath.Join(rootDirectoryPath, filepath.FromSlash(relativePath))
		content, reason := aggregator.readContent(absolutePath, relativePath)
		if reason != "" {
			result.Skipped = append(result.Skipped, types.SkippedFile{RelativePath: relativePath, Reason: reason})
			continue
		}
		if writeError := output.WriteFileSection(writer, relativePath, content); writeError != nil {
			return result, fmt.Errorf(errorWriteSectionFormat, relativePath, writeError)
		}
		result.Written++
	}
	return result, nil
}

// readContent returns the file content or the reason it must be skipped.
func (aggregator *Aggregator) readContent(absolutePath string, relativePath string) ([]byte, types.SkipReason) {
	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		aggregator.logger.Warn(warningUnreadableContent, zap.String("path", relativePath), zap.Error(statError))
		return nil, types.SkipReasonUnreadable
	}
	if aggregator.maxFileSizeBytes > 0 && fileInfo.Size() > aggregator.maxFileSizeBytes {
		aggregator.logger.Warn(warningOversizeFile,
			zap.String("path", relativePath),
			zap.String("size", utils.FormatFileSize(fileInfo.Size())),
			zap.String("limit", utils.FormatFileSize(aggregator.maxFileSizeBytes)),
		)
		return nil, types.SkipReasonOversize
	}
	content, readError := os.ReadFile(absolutePath)
	if readError != nil {
		aggregator.logger.Warn(warningUnreadableContent, zap.String("path", relativePath), zap.Error(readError))
		return nil, types.SkipReasonUnreadable
	}
	if utils.IsBinary(content) {
		aggregator.logger.Warn(warningUndecodableFile,
			zap.String("path", relativePath),
			zap.String("mime_type", utils.DetectMimeType(content)),
		)
		return nil, types.SkipReasonUndecodable
	}
	return content, ""
}
