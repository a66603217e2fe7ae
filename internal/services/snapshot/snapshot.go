// Package snapshot writes the directory structure and the source file contents of a
// project into a single text file.
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/commands"
	"github.com/temirov/codesnap/internal/filter"
	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/tokenizer"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// Phase names a completed step of a snapshot run.
type Phase string

const (
	PhaseStart          Phase = "start"
	PhaseTreeWritten    Phase = "tree written"
	PhaseContentWritten Phase = "content written"
	PhaseClosed         Phase = "closed"
)

const (
	errorRootMissing          = "snapshot: root directory is empty"
	errorOutputMissing        = "snapshot: output file is empty"
	errorCreateOutputFormat   = "creating output file %s: %w"
	errorTreeSectionFormat    = "writing directory structure: %w"
	errorContentSectionFormat = "writing file contents: %w"
	errorFlushOutputFormat    = "flushing output file %s: %w"
	errorCloseOutputFormat    = "closing output file %s: %w"

	logPhaseMessage         = "snapshot phase completed"
	logUnreadableMessage    = "file content replaced with placeholder"
	logTokenFailureMessage  = "token estimate unavailable"
	logFieldPhase           = "phase"
	logFieldPath            = "path"
	logFieldOutput          = "output"
	logFieldTokenizer       = "tokenizer"
	logFieldFiles           = "files"
	logFieldUnreadableFiles = "unreadable"
)

// Options configures a snapshot run.
type Options struct {
	// RootDirectory is the directory whose tree is captured.
	RootDirectory string
	// OutputFile is created inside RootDirectory unless it is absolute.
	OutputFile   string
	Rules        filter.Rules
	TokenCounter tokenizer.Counter
	TokenModel   string
	Logger       *zap.Logger
}

// Result describes a completed snapshot.
type Result struct {
	OutputPath string
	Summary    types.OutputSummary
}

// Generate truncates the output file, writes the directory structure section, the
// section break and the file contents section, then closes the file. Any error aborts
// the run; unreadable files are not errors and appear as placeholders instead.
func Generate(options Options) (result Result, err error) {
	if options.RootDirectory == "" {
		return Result{}, errors.New(errorRootMissing)
	}
	if options.OutputFile == "" {
		return Result{}, errors.New(errorOutputMissing)
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputPath := options.OutputFile
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(options.RootDirectory, outputPath)
	}

	// #nosec G304
	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return Result{}, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	logPhase(logger, PhaseStart, outputPath)
	defer func() {
		closeError := outputFile.Close()
		if closeError != nil && err == nil {
			result = Result{}
			err = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
		if err == nil {
			logPhase(logger, PhaseClosed, outputPath)
		}
	}()

	writer := bufio.NewWriter(outputFile)
	run := &generation{
		options: options,
		logger:  logger,
		writer:  writer,
		tokens:  newTokenTally(options.TokenCounter, options.TokenModel, logger),
	}

	if treeError := run.writeTree(); treeError != nil {
		return Result{}, fmt.Errorf(errorTreeSectionFormat, treeError)
	}
	logPhase(logger, PhaseTreeWritten, outputPath)

	if contentError := run.writeContent(); contentError != nil {
		return Result{}, fmt.Errorf(errorContentSectionFormat, contentError)
	}
	if flushError := writer.Flush(); flushError != nil {
		return Result{}, fmt.Errorf(errorFlushOutputFormat, outputPath, flushError)
	}
	logPhase(logger, PhaseContentWritten, outputPath)

	summary := run.summary()
	logger.Debug(output.FormatSummaryLine(&summary),
		zap.Int(logFieldFiles, summary.TotalFiles),
		zap.Int(logFieldUnreadableFiles, summary.UnreadableFiles))
	return Result{OutputPath: outputPath, Summary: summary}, nil
}

// generation carries the state of one run.
type generation struct {
	options         Options
	logger          *zap.Logger
	writer          io.Writer
	tokens          *tokenTally
	files           int
	unreadableFiles int
	bytes           int64
}

func (run *generation) writeTree() error {
	if _, err := io.WriteString(run.writer, output.TreeSectionHeading); err != nil {
		return err
	}
	treeBuilder := &commands.TreeBuilder{Rules: run.options.Rules}
	rootNode, buildError := treeBuilder.GetTreeData(run.options.RootDirectory)
	if buildError != nil {
		return buildError
	}
	return output.WriteTreeRaw(run.writer, rootNode)
}

func (run *generation) writeContent() error {
	if _, err := io.WriteString(run.writer, output.ContentSectionBreak); err != nil {
		return err
	}
	return commands.StreamContent(run.options.RootDirectory, run.options.Rules, run.visit)
}

func (run *generation) visit(file types.FileOutput) error {
	run.files++
	if file.ReadError != nil {
		run.unreadableFiles++
		run.logger.Warn(logUnreadableMessage, zap.String(logFieldPath, utils.DisplayPath(file.RelativePath)), zap.Error(file.ReadError))
	} else {
		run.bytes += file.SizeBytes
		run.tokens.add(file.Content)
	}
	return output.WriteContentEntry(run.writer, file)
}

func (run *generation) summary() types.OutputSummary {
	summary := types.OutputSummary{
		TotalFiles:      run.files,
		UnreadableFiles: run.unreadableFiles,
		TotalBytes:      run.bytes,
		TotalSize:       utils.FormatFileSize(run.bytes),
	}
	if run.tokens.available() {
		summary.TotalTokens = run.tokens.total
		if summary.TotalTokens > 0 {
			summary.Model = run.tokens.model
		}
	}
	return summary
}

func logPhase(logger *zap.Logger, phase Phase, outputPath string) {
	logger.Debug(logPhaseMessage, zap.String(logFieldPhase, string(phase)), zap.String(logFieldOutput, outputPath))
}
