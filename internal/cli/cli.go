// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/commands"
	"github.com/tyemirov/codepack/internal/config"
	"github.com/tyemirov/codepack/internal/output"
	"github.com/tyemirov/codepack/internal/preset"
	"github.com/tyemirov/codepack/internal/services/clipboard"
	"github.com/tyemirov/codepack/internal/tokenizer"
	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	presetFlagName     = "preset"
	presetFlagShort    = "p"
	outputFlagName     = "output"
	outputFlagShort    = "o"
	maxSizeFlagName    = "max-size"
	extensionFlagName  = "ext"
	ignoreFlagName     = "ignore"
	rulesFlagName      = "rules"
	configFlagName     = "config"
	clipboardFlagName  = "clipboard"
	tokensFlagName     = "tokens"
	modelFlagName      = "model"
	versionFlagName    = "version"
	defaultRootPath    = "."
	versionTemplate    = "codepack version: %s\n"
	presetLineTemplate = "%-8s %s%s\n"

	rootUse              = "codepack [root]"
	rootShortDescription = "pack a project into a single text file"
	rootLongDescription  = `codepack selects the source files of a project and writes them to one text file:
a directory tree of the selection followed by the content of every file.
Selection honors the project's .gitignore, a built-in blacklist, an extension
whitelist, a size limit and a named preset (--preset).`
	rootUsageExample = `  # Pack the current directory
  codepack

  # Pack only the application logic of another project and count tokens
  codepack --preset core --tokens ../webapp

  # Include Go sources only and copy the result
  codepack --ext go --ext mod --clipboard`

	packUse                 = types.CommandPack + " [root]"
	packShortDescription    = "write the packed file (default command)"
	treeUse                 = types.CommandTree + " [root]"
	treeAlias               = "t"
	treeShortDescription    = "print the directory tree of the selection (" + treeAlias + ")"
	presetsUse              = types.CommandPresets
	presetsShortDescription = "list the available presets"

	presetFlagDescription    = "preset restricting the selection to its include roots"
	outputFlagDescription    = "output file name, relative to the root unless absolute"
	maxSizeFlagDescription   = "skip the content of files larger than this size (e.g. 500kb, 0 disables the limit)"
	extensionFlagDescription = "allowed file extension, repeatable; replaces the default list"
	ignoreFlagDescription    = "additional entry name to ignore, repeatable"
	rulesFlagDescription     = "ignore rule file name inside the root"
	configFlagDescription    = "configuration file used instead of " + utils.ConfigFileName
	clipboardFlagDescription = "copy the packed file to the clipboard"
	tokensFlagDescription    = "estimate the token count of the packed file"
	modelFlagDescription     = "tokenizer model used with --tokens"
	versionFlagDescription   = "display application version"

	errorLoadConfigFormat    = "loading configuration: %w"
	errorApplyConfigFormat   = "applying configuration: %w"
	warningTokenCountFailed  = "failed to count tokens"
	warningTokenCountSkipped = "packed file is not text, token count skipped"
	warningClipboardFailed   = "failed to copy the packed file to the clipboard"
	debugSkippedFile         = "file omitted from the packed file"
	infoPackedFile           = "packed file written"
)

// CounterFactory builds a token counter for a model name.
type CounterFactory func(model string) (tokenizer.Counter, string, error)

// Dependencies are the collaborators of the command tree. Zero values are
// replaced with production implementations.
type Dependencies struct {
	Logger         *zap.Logger
	Copier         clipboard.Copier
	NewCounter     CounterFactory
	LoadOptions    config.LoadOptions
	VersionLookup  func() string
	StandardOutput io.Writer
}

func (dependencies Dependencies) withDefaults() Dependencies {
	resolved := dependencies
	resolved.Logger = utils.LoggerOrNop(resolved.Logger)
	if resolved.Copier == nil {
		resolved.Copier = clipboard.NewService()
	}
	if resolved.NewCounter == nil {
		resolved.NewCounter = tokenizer.NewCounter
	}
	if resolved.VersionLookup == nil {
		resolved.VersionLookup = utils.GetApplicationVersion
	}
	return resolved
}

// Execute runs the codepack application.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// runOptions stores the values of the selection flags shared by every command.
type runOptions struct {
	presetName     string
	outputFileName string
	maxSize        string
	extensions     []string
	ignoreNames    []string
	ruleFileName   string
	configPath     string
	clipboard      bool
	tokens         bool
	model          string
	showVersion    bool
}

// NewRootCommand builds the command tree. The root command packs a project.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	resolvedDependencies := dependencies.withDefaults()
	options := &runOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runPack(command, arguments, options, resolvedDependencies)
		},
	}
	if resolvedDependencies.StandardOutput != nil {
		rootCommand.SetOut(resolvedDependencies.StandardOutput)
	}

	flagSet := rootCommand.PersistentFlags()
	flagSet.StringVarP(&options.presetName, presetFlagName, presetFlagShort, "", presetFlagDescription)
	flagSet.StringVarP(&options.outputFileName, outputFlagName, outputFlagShort, "", outputFlagDescription)
	flagSet.StringVar(&options.maxSize, maxSizeFlagName, "", maxSizeFlagDescription)
	flagSet.StringArrayVar(&options.extensions, extensionFlagName, nil, extensionFlagDescription)
	flagSet.StringArrayVar(&options.ignoreNames, ignoreFlagName, nil, ignoreFlagDescription)
	flagSet.StringVar(&options.ruleFileName, rulesFlagName, "", rulesFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, "", modelFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	registerToggleFlag(flagSet, &options.clipboard, clipboardFlagName, clipboardFlagDescription)
	registerToggleFlag(flagSet, &options.tokens, tokensFlagName, tokensFlagDescription)

	rootCommand.AddCommand(
		createPackCommand(options, resolvedDependencies),
		createTreeCommand(options, resolvedDependencies),
		createPresetsCommand(options, resolvedDependencies),
	)
	return rootCommand
}

func createPackCommand(options *runOptions, dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   packUse,
		Short: packShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runPack(command, arguments, options, dependencies)
		},
	}
}

func createTreeCommand(options *runOptions, dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				return printVersion(command, dependencies)
			}
			rootDirectoryPath := rootArgument(arguments)
			settings, settingsError := resolveSettings(command, rootDirectoryPath, options, dependencies)
			if settingsError != nil {
				return settingsError
			}
			selection, selectError := commands.NewPacker(settings, dependencies.Logger).Select(rootDirectoryPath)
			if selectError != nil {
				return selectError
			}
			if len(selection.Paths) == 0 {
				return commands.ErrEmptySelection
			}
			return output.WriteDirectoryStructure(command.OutOrStdout(), selection.Paths)
		},
	}
}

func createPresetsCommand(options *runOptions, dependencies Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   presetsUse,
		Short: presetsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				return printVersion(command, dependencies)
			}
			settings, settingsError := resolveSettings(command, defaultRootPath, options, dependencies)
			if settingsError != nil {
				return settingsError
			}
			for _, listedPreset := range settings.Presets.Presets() {
				if _, writeError := fmt.Fprintf(command.OutOrStdout(), presetLineTemplate, listedPreset.Name, listedPreset.Description, formatIncludeRoots(listedPreset)); writeError != nil {
					return writeError
				}
			}
			return nil
		},
	}
}

func runPack(command *cobra.Command, arguments []string, options *runOptions, dependencies Dependencies) error {
	if options.showVersion {
		return printVersion(command, dependencies)
	}
	rootDirectoryPath := rootArgument(arguments)
	settings, settingsError := resolveSettings(command, rootDirectoryPath, options, dependencies)
	if settingsError != nil {
		return settingsError
	}

	summary, packError := commands.NewPacker(settings, dependencies.Logger).Pack(rootDirectoryPath)
	if packError != nil {
		return packError
	}
	for _, skippedFile := range summary.Skipped {
		dependencies.Logger.Debug(debugSkippedFile, zap.String("path", skippedFile.RelativePath), zap.String("reason", string(skippedFile.Reason)))
	}

	tokenCount, tokenModel := countArtifactTokens(summary, settings, dependencies)
	if settings.Clipboard {
		if copyError := clipboard.CopyFile(dependencies.Copier, summary.OutputPath); copyError != nil {
			dependencies.Logger.Warn(warningClipboardFailed, zap.Error(copyError))
		}
	}
	dependencies.Logger.Info(infoPackedFile, zap.String("path", summary.OutputPath), zap.String("preset", summary.PresetName))
	_, writeError := fmt.Fprintln(command.OutOrStdout(), output.FormatSummaryLine(summary, tokenCount, tokenModel))
	return writeError
}

// resolveSettings layers defaults, configuration files and flags set on the command line.
func resolveSettings(command *cobra.Command, rootDirectoryPath string, options *runOptions, dependencies Dependencies) (config.Settings, error) {
	loadOptions := dependencies.LoadOptions
	loadOptions.WorkingDirectory = rootDirectoryPath
	loadOptions.ExplicitFilePath = options.configPath
	fileConfiguration, loadError := config.LoadApplicationConfiguration(loadOptions)
	if loadError != nil {
		return config.Settings{}, fmt.Errorf(errorLoadConfigFormat, loadError)
	}

	flagConfiguration := config.ApplicationConfiguration{
		Extensions: options.extensions,
		Ignore:     options.ignoreNames,
		MaxSize:    options.maxSize,
		Output:     options.outputFileName,
		Rules:      options.ruleFileName,
		Preset:     options.presetName,
		Clipboard:  toggleFlagPointer(command, clipboardFlagName, options.clipboard),
		Tokens: config.TokenConfiguration{
			Enabled: toggleFlagPointer(command, tokensFlagName, options.tokens),
			Model:   options.model,
		},
	}
	settings, applyError := fileConfiguration.Merge(flagConfiguration).Apply(config.DefaultSettings())
	if applyError != nil {
		return config.Settings{}, fmt.Errorf(errorApplyConfigFormat, applyError)
	}
	return settings, nil
}

func countArtifactTokens(summary types.PackSummary, settings config.Settings, dependencies Dependencies) (int, string) {
	if !settings.Tokens.Enabled {
		return 0, ""
	}
	counter, resolvedModel, counterError := dependencies.NewCounter(settings.Tokens.Model)
	if counterError != nil {
		dependencies.Logger.Warn(warningTokenCountFailed, zap.String("model", settings.Tokens.Model), zap.Error(counterError))
		return 0, ""
	}
	countResult, countError := tokenizer.CountFile(counter, summary.OutputPath)
	if countError != nil {
		dependencies.Logger.Warn(warningTokenCountFailed, zap.String("path", summary.OutputPath), zap.Error(countError))
		return 0, ""
	}
	if !countResult.Counted {
		dependencies.Logger.Warn(warningTokenCountSkipped, zap.String("path", summary.OutputPath))
		return 0, ""
	}
	return countResult.Tokens, resolvedModel
}

func printVersion(command *cobra.Command, dependencies Dependencies) error {
	_, writeError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, dependencies.VersionLookup())
	return writeError
}

func rootArgument(arguments []string) string {
	if len(arguments) == 0 || strings.TrimSpace(arguments[0]) == "" {
		return defaultRootPath
	}
	return arguments[0]
}

func formatIncludeRoots(listedPreset preset.Preset) string {
	if listedPreset.IsUniversal() {
		return ""
	}
	return " [" + strings.Join(listedPreset.IncludeRoots, ", ") + "]"
}
