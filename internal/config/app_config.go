package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/tyemirov/codepack/internal/preset"
	"github.com/tyemirov/codepack/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	// WorkingDirectory is the project root searched for the local configuration file.
	WorkingDirectory string
	// ExplicitFilePath replaces the local configuration file when set.
	ExplicitFilePath string
	// GlobalFilePath overrides the global configuration location. Use
	// DisableGlobal to skip the global file entirely.
	GlobalFilePath string
	DisableGlobal  bool
}

// ApplicationConfiguration holds the values read from configuration files.
// Unset values are nil or empty so that merging can tell them apart from zero values.
type ApplicationConfiguration struct {
	Extensions []string                       `mapstructure:"extensions"`
	Ignore     []string                       `mapstructure:"ignore"`
	MaxSize    string                         `mapstructure:"max_size"`
	Output     string                         `mapstructure:"output"`
	Rules      string                         `mapstructure:"rules"`
	Preset     string                         `mapstructure:"preset"`
	Presets    map[string]PresetConfiguration `mapstructure:"presets"`
	Clipboard  *bool                          `mapstructure:"clipboard"`
	Tokens     TokenConfiguration             `mapstructure:"tokens"`
}

// PresetConfiguration declares a preset in a configuration file.
type PresetConfiguration struct {
	Description string   `mapstructure:"description"`
	Include     []string `mapstructure:"include"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// GlobalConfigPath returns the per-user configuration file location.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// LoadApplicationConfiguration loads configuration from global and local files.
// Local values override global ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if !options.DisableGlobal {
		globalPath := options.GlobalFilePath
		if globalPath == "" {
			globalPath = GlobalConfigPath()
		}
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, explicit := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, explicit)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), false
}

// loadConfigurationFromPath reads one configuration file. Missing files are
// skipped unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.Ignore) > 0 {
		result.Ignore = utils.DeduplicatePatterns(append(append([]string{}, result.Ignore...), override.Ignore...))
	}
	if override.MaxSize != "" {
		result.MaxSize = override.MaxSize
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Rules != "" {
		result.Rules = override.Rules
	}
	if override.Preset != "" {
		result.Preset = override.Preset
	}
	if len(override.Presets) > 0 {
		mergedPresets := make(map[string]PresetConfiguration, len(result.Presets)+len(override.Presets))
		for name, presetConfig := range result.Presets {
			mergedPresets[name] = presetConfig
		}
		for name, presetConfig := range override.Presets {
			mergedPresets[name] = presetConfig
		}
		result.Presets = mergedPresets
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Apply overlays the file configuration onto settings.
// Extra ignore names extend the built-in blacklist rather than replacing it.
func (config ApplicationConfiguration) Apply(settings Settings) (Settings, error) {
	result := settings
	if len(config.Extensions) > 0 {
		result.AllowedExtensions = normalizeExtensions(config.Extensions)
	}
	if len(config.Ignore) > 0 {
		result.IgnoreNames = normalizeNames(append(append([]string{}, result.IgnoreNames...), config.Ignore...))
	}
	if config.MaxSize != "" {
		maxSizeBytes, parseErr := utils.ParseFileSize(config.MaxSize)
		if parseErr != nil {
			return Settings{}, fmt.Errorf("decode max_size: %w", parseErr)
		}
		result.MaxFileSizeBytes = maxSizeBytes
	}
	if config.Output != "" {
		result.OutputFileName = config.Output
	}
	if config.Rules != "" {
		result.RuleFileName = config.Rules
	}
	if config.Preset != "" {
		result.PresetName = config.Preset
	}
	if len(config.Presets) > 0 {
		declaredPresets := make([]preset.Preset, 0, len(config.Presets))
		for name, presetConfig := range config.Presets {
			declaredPresets = append(declaredPresets, preset.New(name, presetConfig.Description, presetConfig.Include))
		}
		result.Presets = result.Presets.With(declaredPresets...)
	}
	if config.Clipboard != nil {
		result.Clipboard = *config.Clipboard
	}
	if config.Tokens.Enabled != nil {
		result.Tokens.Enabled = *config.Tokens.Enabled
	}
	if config.Tokens.Model != "" {
		result.Tokens.Model = config.Tokens.Model
	}
	return result, nil
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
