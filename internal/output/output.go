// Package output renders the snapshot sections as plain text.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	// TreeSectionHeading opens the directory structure section.
	TreeSectionHeading = "--- DIRECTORY STRUCTURE ---\n"
	// ContentSectionBreak separates the tree section from the file contents section.
	ContentSectionBreak = "\n\n--- FILE CONTENTS ---\n\n"

	indentUnit      = "    "
	directorySuffix = "/"
	separatorWidth  = 50
	separatorRune   = "="
	pathLabel       = "PATH: "

	readErrorFormat        = "[Error reading file: %v]\n"
	completionNoticeFormat = "Success! File '%s' generated (%s). Send it to your AI assistant."
)

var separatorLine = strings.Repeat(separatorRune, separatorWidth)

// WriteTreeRaw writes one line per node: four spaces per depth level, then the
// node name, with a trailing slash on directories. Children are written in order.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode) error {
	if node == nil {
		return nil
	}
	suffix := ""
	if node.Type == types.NodeTypeDirectory {
		suffix = directorySuffix
	}
	if _, err := fmt.Fprintf(writer, "%s%s%s\n", strings.Repeat(indentUnit, node.Depth), node.Name, suffix); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := WriteTreeRaw(writer, child); err != nil {
			return err
		}
	}
	return nil
}

// WriteContentEntry writes a file header framed by separator lines followed by the
// verbatim content, or a placeholder describing why the content is missing.
func WriteContentEntry(writer io.Writer, file types.FileOutput) error {
	if _, err := fmt.Fprintf(writer, "\n%s\n%s%s\n%s\n", separatorLine, pathLabel, utils.DisplayPath(file.RelativePath), separatorLine); err != nil {
		return err
	}
	if file.ReadError != nil {
		_, err := fmt.Fprintf(writer, readErrorFormat, file.ReadError)
		return err
	}
	_, err := io.WriteString(writer, file.Content)
	return err
}

// FormatSummaryLine renders aggregate snapshot statistics.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	return "Summary: " + summaryDetails(summary)
}

// FormatCompletionNotice renders the message printed after a successful run.
func FormatCompletionNotice(outputFile string, summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	return fmt.Sprintf(completionNoticeFormat, outputFile, summaryDetails(summary))
}

func summaryDetails(summary *types.OutputSummary) string {
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	details := fmt.Sprintf("%d %s, %s", summary.TotalFiles, label, summary.TotalSize)
	if summary.TotalTokens > 0 {
		details += fmt.Sprintf(", ~%d tokens", summary.TotalTokens)
		if summary.Model != "" {
			details += fmt.Sprintf(" (model: %s)", summary.Model)
		}
	}
	if summary.UnreadableFiles > 0 {
		details += fmt.Sprintf(", %d unreadable", summary.UnreadableFiles)
	}
	return details
}
