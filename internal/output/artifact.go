package output

import (
	"fmt"
	"io"

	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const fileSectionHeaderFormat = "\n--- %s ---\n\n"

// FileSectionHeader returns the delimiter preceding the content of relativePath.
func FileSectionHeader(relativePath string) string {
	return fmt.Sprintf(fileSectionHeaderFormat, relativePath)
}

// WriteFileSection writes one file section: header, content and a closing newline.
func WriteFileSection(writer io.Writer, relativePath string, content []byte) error {
	if _, writeError := io.WriteString(writer, FileSectionHeader(relativePath)); writeError != nil {
		return writeError
	}
	if _, writeError := writer.Write(content); writeError != nil {
		return writeError
	}
	_, writeError := io.WriteString(writer, "\n")
	return writeError
}

// FormatSummaryLine formats a PackSummary into a single human-readable line.
func FormatSummaryLine(summary types.PackSummary, tokens int, model string) string {
	label := "files"
	if summary.WrittenFiles == 1 {
		label = "file"
	}
	skippedSuffix := ""
	if len(summary.Skipped) > 0 {
		skippedSuffix = fmt.Sprintf(", %d skipped", len(summary.Skipped))
	}
	tokenSuffix := ""
	if tokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", tokens)
		if model != "" {
			tokenSuffix += fmt.Sprintf(" (model: %s)", model)
		}
	}
	return fmt.Sprintf("Summary: %d %s of %d selected, %s%s%s", summary.WrittenFiles, label, summary.SelectedFiles, utils.FormatFileSize(summary.TotalBytes), skippedSuffix, tokenSuffix)
}
