package config

import (
	"path/filepath"
	"strings"

	"github.com/tyemirov/codepack/internal/ignore"
	"github.com/tyemirov/codepack/internal/preset"
	"github.com/tyemirov/codepack/internal/utils"
)

// DefaultMaxFileSizeBytes is the per-file cutoff above which content is omitted.
const DefaultMaxFileSizeBytes int64 = 500 * 1024

// DefaultTokenizerModel is the model used for token estimates.
const DefaultTokenizerModel = "gpt-4o"

// DefaultAllowedExtensions lists the file extensions treated as source code.
var DefaultAllowedExtensions = []string{
	".py", ".js", ".html", ".css", ".json", ".md", ".txt",
	".vue", ".ts", ".jsx", ".tsx", ".sh", ".yaml", ".yml", ".xml",
	".go", ".mod", ".toml",
}

// TokenSettings controls the optional token estimate of the artifact.
type TokenSettings struct {
	Enabled bool
	Model   string
}

// Settings is the immutable configuration of one run.
// It is built once at start-up and passed by value to every component.
type Settings struct {
	AllowedExtensions []string
	IgnoreNames       []string
	MaxFileSizeBytes  int64
	OutputFileName    string
	RuleFileName      string
	PresetName        string
	Presets           preset.Catalog
	Clipboard         bool
	Tokens            TokenSettings
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		AllowedExtensions: normalizeExtensions(DefaultAllowedExtensions),
		IgnoreNames:       append([]string{}, ignore.DefaultBlacklist...),
		MaxFileSizeBytes:  DefaultMaxFileSizeBytes,
		OutputFileName:    utils.DefaultOutputFileName,
		RuleFileName:      utils.GitIgnoreFileName,
		PresetName:        preset.AllPresetName,
		Presets:           preset.DefaultCatalog(),
		Tokens:            TokenSettings{Model: DefaultTokenizerModel},
	}
}

// OutputPath resolves the artifact location against the project root.
func (settings Settings) OutputPath(rootDirectoryPath string) string {
	if filepath.IsAbs(settings.OutputFileName) {
		return settings.OutputFileName
	}
	return filepath.Join(rootDirectoryPath, settings.OutputFileName)
}

// Blacklist returns the static ignore names extended with the artifact name
// and the configuration file name so a run never reads its own output.
// The running executable is excluded by identity in the walker, not by name.
func (settings Settings) Blacklist() []string {
	names := append([]string{}, settings.IgnoreNames...)
	names = append(names, filepath.Base(settings.OutputFileName), utils.ConfigFileName)
	return utils.DeduplicatePatterns(names)
}

// ExtensionSet returns the allowed extensions as a lookup set. An empty set
// disables extension filtering.
func (settings Settings) ExtensionSet() map[string]struct{} {
	extensionSet := make(map[string]struct{}, len(settings.AllowedExtensions))
	for _, extension := range settings.AllowedExtensions {
		if normalizedExtension := utils.NormalizeExtension(extension); normalizedExtension != "" {
			extensionSet[normalizedExtension] = struct{}{}
		}
	}
	return extensionSet
}

func normalizeExtensions(extensions []string) []string {
	normalizedExtensions := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		if normalizedExtension := utils.NormalizeExtension(extension); normalizedExtension != "" {
			normalizedExtensions = append(normalizedExtensions, normalizedExtension)
		}
	}
	return utils.DeduplicatePatterns(normalizedExtensions)
}

func normalizeNames(names []string) []string {
	normalizedNames := make([]string, 0, len(names))
	for _, name := range names {
		if trimmedName := strings.TrimSpace(name); trimmedName != "" {
			normalizedNames = append(normalizedNames, trimmedName)
		}
	}
	return utils.DeduplicatePatterns(normalizedNames)
}
