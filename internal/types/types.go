// Package types defines the cross-package data structures used by the codepack CLI.
package types

const (
	CommandPack    = "pack"
	CommandTree    = "tree"
	CommandPresets = "presets"
)

// FileCandidate describes a file met during the selection walk before filters decide on it.
type FileCandidate struct {
	AbsolutePath string
	RelativePath string
	Extension    string
	SizeBytes    int64
}

// SkipReason classifies why a selected file produced no content section.
type SkipReason string

const (
	SkipReasonOversize    SkipReason = "oversize"
	SkipReasonUnreadable  SkipReason = "unreadable"
	SkipReasonUndecodable SkipReason = "undecodable"
)

// SkippedFile records a selected file whose content was omitted from the artifact.
type SkippedFile struct {
	RelativePath string
	Reason       SkipReason
}

// PackSummary captures aggregate information about a written artifact.
type PackSummary struct {
	OutputPath    string
	PresetName    string
	SelectedFiles int
	WrittenFiles  int
	Skipped       []SkippedFile
	TotalBytes    int64
}
