// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/config"
	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/services/snapshot"
	"github.com/temirov/codesnap/internal/tokenizer"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	versionFlagName        = "version"
	tokensFlagName         = "tokens"
	versionTemplate        = "codesnap version: %s\n"
	rootUse                = "codesnap"
	rootShortDescription   = "write the project tree and source files into one text file"
	rootLongDescription    = `codesnap walks the current directory and writes project_snapshot.txt.
The file starts with the directory structure, followed by the content of every source file
under a path header. Dependency and build directories are skipped.
Use --tokens to add a token estimate to the completion notice, and --version to print the application version.`
	rootUsageExample = `  # Snapshot the current project
  codesnap

  # Snapshot and estimate the token budget
  codesnap --tokens`
	versionFlagDescription    = "display application version"
	tokensFlagDescription     = "estimate the token count of the dumped content"
	defaultTokenizerModelName = "gpt-4o"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	configurationErrorFormat    = "loading configuration: %w"
	generationErrorFormat       = "generating snapshot: %w"
	logTokenizerUnavailable     = "tokenizer unavailable, continuing without token estimate"
	logSnapshotWritten          = "snapshot written"
	logConfigurationLoaded      = "configuration loaded"
	logFieldOutput              = "output"
	logFieldModel               = "model"
	logFieldAllowedExtensions   = "allowed_extensions"
	logFieldIgnoredFiles        = "ignored_files"
	logFieldIgnoredDirectories  = "ignored_directories"
)

// counterFactory builds the token counter used for the --tokens estimate.
type counterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)

// Execute runs the codesnap application.
func Execute(logger *zap.Logger) error {
	return createRootCommand(logger, tokenizer.NewCounter).Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, newCounter counterFactory) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	var showVersion bool
	var estimateTokens bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			return runSnapshot(command, logger, workingDirectory, estimateTokens, newCounter)
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().BoolVar(&estimateTokens, tokensFlagName, false, tokensFlagDescription)
	return rootCommand
}

// runSnapshot generates the snapshot for workingDirectory and prints the completion notice.
func runSnapshot(command *cobra.Command, logger *zap.Logger, workingDirectory string, estimateTokens bool, newCounter counterFactory) error {
	configuration, configurationError := config.LoadDefaultConfiguration()
	if configurationError != nil {
		return fmt.Errorf(configurationErrorFormat, configurationError)
	}

	rules := configuration.Rules()
	logger.Debug(logConfigurationLoaded,
		zap.String(logFieldOutput, configuration.OutputFile),
		zap.Int(logFieldAllowedExtensions, rules.AllowedExtensions.Len()),
		zap.Int(logFieldIgnoredFiles, rules.IgnoredFiles.Len()),
		zap.Strings(logFieldIgnoredDirectories, rules.IgnoredDirectories.Values()))

	options := snapshot.Options{
		RootDirectory: workingDirectory,
		OutputFile:    configuration.OutputFile,
		Rules:         rules,
		Logger:        logger,
	}
	if estimateTokens && newCounter != nil {
		counter, resolvedModel, counterError := newCounter(tokenizer.Config{Model: defaultTokenizerModelName})
		if counterError != nil {
			logger.Warn(logTokenizerUnavailable, zap.String(logFieldModel, defaultTokenizerModelName), zap.Error(counterError))
		} else {
			options.TokenCounter = counter
			options.TokenModel = resolvedModel
		}
	}

	result, generationError := snapshot.Generate(options)
	if generationError != nil {
		return fmt.Errorf(generationErrorFormat, generationError)
	}
	logger.Debug(logSnapshotWritten, zap.String(logFieldOutput, result.OutputPath))

	summary := result.Summary
	_, printError := fmt.Fprintln(command.OutOrStdout(), output.FormatCompletionNotice(configuration.OutputFile, &summary))
	return printError
}
