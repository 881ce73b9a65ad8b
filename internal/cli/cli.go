// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/commands"
	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/output"
	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/types"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	dirOnlyFlagName           = "dir-only"
	dirOnlyFlagShorthand      = "d"
	outputFileFlagName        = "output-file"
	outputFileFlagShorthand   = "o"
	allFlagName               = "all"
	allFlagShorthand          = "a"
	almostAllFlagName         = "almost-all"
	almostAllFlagShorthand    = "A"
	heightFlagName            = "height"
	versionFlagName           = "version"
	versionFlagShorthand      = "v"
	copyFlagName              = "copy"
	configFlagName            = "config"
	initConfigFlagName        = "init-config"
	forceFlagName             = "force"
	defaultPath               = "."
	defaultHeight             = 5
	defaultOutputFileName     = "tree.md"
	consoleOutputFileName     = "-"
	versionTemplate           = "dirtree version: %s\n"
	rootUse                   = "dirtree [ROOT_DIR]"
	rootShortDescription      = "Dir Tree, a directory tree generator"
	rootLongDescription       = `dirtree draws the directory tree below ROOT_DIR (default: the current directory).
Directories are listed before files. Hidden entries are skipped unless -a is given.
Use -o to save the tree to a file wrapped in a fenced code block.

Defaults for every option can be stored in .dirtree.yaml in the working directory
or in ~/.dirtree/config.yaml; command-line flags take precedence.`
	rootUsageExample = `  # Tree of the current directory, three levels deep
  dirtree --height 3

  # Directories only, including hidden ones, saved to tree.md
  dirtree -d -a -o tree.md ./project`
	dirOnlyFlagDescription    = "generate a directory-only tree"
	outputFileFlagDescription = "save the tree to OUTPUT_FILE (default " + defaultOutputFileName + " when no path is given, " + consoleOutputFileName + " for the console)"
	allFlagDescription        = "show hidden files and directories"
	heightFlagDescription     = "maximum depth of the tree"
	versionFlagDescription    = "display application version"
	copyFlagDescription       = "copy the tree to the clipboard"
	configFlagDescription     = "path to a configuration file used instead of ./" + utils.ConfigFileName
	initConfigFlagDescription = "write the default configuration (local or global) and exit"
	forceFlagDescription      = "overwrite an existing configuration file with --" + initConfigFlagName

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	errorRootMissingFormat      = "%w: the specified root directory, '%s', does not exist"
	errorRootNotDirectoryFormat = "%w: the specified root directory, '%s', is not a directory"
	errorRootStatFormat         = "stat failed for '%s': %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"

	logMessageTreeWritten       = "tree written"
	logMessageTreeCopied        = "tree copied to clipboard"
	logMessageConfigInitialized = "configuration written"
	logFieldPath                = "path"
	logFieldLines               = "lines"
)

// commandEnvironment carries the process-level collaborators of the root command.
type commandEnvironment struct {
	stdout           io.Writer
	stderr           io.Writer
	logger           *zap.Logger
	copier           clipboard.Copier
	workingDirectory string
}

// Execute runs the dirtree application with the process arguments.
func Execute(logger *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	environment := commandEnvironment{
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		logger:           logger,
		copier:           clipboard.NewService(),
		workingDirectory: workingDirectory,
	}
	return runWithArguments(environment, os.Args[1:])
}

func runWithArguments(environment commandEnvironment, arguments []string) error {
	rootCommand := createRootCommand(environment)
	rootCommand.SetArgs(normalizeOutputFileArguments(arguments))
	return rootCommand.Execute()
}

// treeFlagValues holds the raw values bound to the root command flags.
type treeFlagValues struct {
	directoriesOnly bool
	outputFile      string
	showHidden      bool
	height          int
	copyToClipboard bool
	showVersion     bool
	configPath      string
	initTarget      string
	force           bool
}

// treeSettings is the effective configuration after merging files and flags.
type treeSettings struct {
	directoriesOnly bool
	showHidden      bool
	height          int
	destination     types.Destination
	copyToClipboard bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(environment commandEnvironment) *cobra.Command {
	var flagValues treeFlagValues

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flagValues.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			if flagValues.initTarget != "" {
				return runInitConfiguration(environment, flagValues)
			}
			rootArgument := defaultPath
			if len(arguments) > 0 {
				rootArgument = arguments[0]
			}
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: environment.workingDirectory,
				ExplicitFilePath: flagValues.configPath,
			})
			if configurationError != nil {
				return configurationError
			}
			settings, settingsError := resolveTreeSettings(command.Flags(), flagValues, applicationConfiguration.Tree)
			if settingsError != nil {
				return settingsError
			}
			return runTree(environment, rootArgument, settings)
		},
	}
	rootCommand.SetOut(environment.stdout)
	rootCommand.SetErr(environment.stderr)

	flagSet := rootCommand.Flags()
	flagSet.BoolVarP(&flagValues.directoriesOnly, dirOnlyFlagName, dirOnlyFlagShorthand, false, dirOnlyFlagDescription)
	flagSet.StringVarP(&flagValues.outputFile, outputFileFlagName, outputFileFlagShorthand, "", outputFileFlagDescription)
	flagSet.Lookup(outputFileFlagName).NoOptDefVal = defaultOutputFileName
	flagSet.BoolVarP(&flagValues.showHidden, allFlagName, allFlagShorthand, false, allFlagDescription)
	flagSet.BoolVarP(&flagValues.showHidden, almostAllFlagName, almostAllFlagShorthand, false, allFlagDescription)
	_ = flagSet.MarkHidden(almostAllFlagName)
	registerHeightFlag(flagSet, &flagValues.height)
	flagSet.BoolVarP(&flagValues.showVersion, versionFlagName, versionFlagShorthand, false, versionFlagDescription)
	flagSet.BoolVar(&flagValues.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flagSet.StringVar(&flagValues.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringVar(&flagValues.initTarget, initConfigFlagName, "", initConfigFlagDescription)
	flagSet.Lookup(initConfigFlagName).NoOptDefVal = string(config.InitTargetLocal)
	flagSet.BoolVar(&flagValues.force, forceFlagName, false, forceFlagDescription)
	return rootCommand
}

// resolveTreeSettings starts from the built-in defaults, applies configuration, then explicitly set flags.
func resolveTreeSettings(flagSet *pflag.FlagSet, flagValues treeFlagValues, configuration config.TreeConfiguration) (treeSettings, error) {
	settings := treeSettings{
		height:      defaultHeight,
		destination: types.ConsoleDestination(),
	}

	if configuration.DirectoriesOnly != nil {
		settings.directoriesOnly = *configuration.DirectoriesOnly
	}
	if configuration.ShowHidden != nil {
		settings.showHidden = *configuration.ShowHidden
	}
	if configuration.Height != nil {
		if heightError := validateConfiguredHeight(*configuration.Height); heightError != nil {
			return treeSettings{}, heightError
		}
		settings.height = *configuration.Height
	}
	if configuration.OutputFile != "" {
		settings.destination = destinationFor(configuration.OutputFile)
	}
	if configuration.Copy != nil {
		settings.copyToClipboard = *configuration.Copy
	}

	if flagSet.Changed(dirOnlyFlagName) {
		settings.directoriesOnly = flagValues.directoriesOnly
	}
	if flagSet.Changed(allFlagName) || flagSet.Changed(almostAllFlagName) {
		settings.showHidden = flagValues.showHidden
	}
	if flagSet.Changed(heightFlagName) {
		settings.height = flagValues.height
	}
	if flagSet.Changed(outputFileFlagName) {
		settings.destination = destinationFor(flagValues.outputFile)
	}
	if flagSet.Changed(copyFlagName) {
		settings.copyToClipboard = flagValues.copyToClipboard
	}
	return settings, nil
}

func destinationFor(outputFile string) types.Destination {
	if outputFile == "" || outputFile == consoleOutputFileName {
		return types.ConsoleDestination()
	}
	return types.FileDestination(outputFile)
}

// runTree validates the root, builds the whole tree, and only then writes it.
func runTree(environment commandEnvironment, rootArgument string, settings treeSettings) error {
	rootPath, validationError := resolveRootDirectory(rootArgument)
	if validationError != nil {
		return validationError
	}

	treeBuilder := commands.NewTreeBuilder(commands.TreeOptions{
		Root:            rootPath.DisplayPath,
		DirectoriesOnly: settings.directoriesOnly,
		ShowHidden:      settings.showHidden,
		MaxHeight:       settings.height,
	})
	lines, buildError := treeBuilder.BuildTree()
	if buildError != nil {
		return buildError
	}

	renderer := output.NewRenderer(environment.stdout)
	if renderError := renderer.Render(lines, settings.destination); renderError != nil {
		return renderError
	}
	if settings.destination.Kind == types.DestinationFile {
		environment.logger.Info(logMessageTreeWritten,
			zap.String(logFieldPath, settings.destination.Path),
			zap.Int(logFieldLines, len(lines)),
		)
	}

	if settings.copyToClipboard {
		if copyError := environment.copier.Copy(output.FormatLines(lines)); copyError != nil {
			return copyError
		}
		environment.logger.Info(logMessageTreeCopied, zap.Int(logFieldLines, len(lines)))
	}
	return nil
}

func runInitConfiguration(environment commandEnvironment, flagValues treeFlagValues) error {
	configurationPath, initError := config.InitializeConfiguration(config.InitOptions{
		Target:           config.InitTarget(flagValues.initTarget),
		Force:            flagValues.force,
		WorkingDirectory: environment.workingDirectory,
	})
	if initError != nil {
		return initError
	}
	environment.logger.Info(logMessageConfigInitialized, zap.String(logFieldPath, configurationPath))
	return nil
}

// resolveRootDirectory checks that rootArgument names an existing directory.
// Relative paths are resolved against the process working directory.
func resolveRootDirectory(rootArgument string) (types.ValidatedPath, error) {
	displayPath := filepath.Clean(rootArgument)
	absolutePath, absolutePathError := filepath.Abs(displayPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, rootArgument, absolutePathError)
	}
	info, fileStatusError := os.Stat(absolutePath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedPath{}, fmt.Errorf(errorRootMissingFormat, ErrInvalidRoot, rootArgument)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorRootStatFormat, rootArgument, fileStatusError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorRootNotDirectoryFormat, ErrInvalidRoot, rootArgument)
	}
	return types.ValidatedPath{DisplayPath: displayPath}, nil
}
