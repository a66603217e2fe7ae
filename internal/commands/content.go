package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/codesnap/internal/filter"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// ContentVisitor receives each FileOutput discovered during traversal.
// Returning an error stops the traversal.
type ContentVisitor func(types.FileOutput) error

// StreamContent walks rootPath depth-first and invokes visitor for every file accepted
// by rules.ShouldInclude, files of a directory before its subdirectories. A file that
// cannot be read or decoded is still visited, with ReadError set. Directory enumeration
// errors stop the walk and are returned.
func StreamContent(rootPath string, rules filter.Rules, visitor ContentVisitor) error {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	return streamDirectory(filepath.Clean(absoluteRootPath), rootDirectoryName, rules, visitor)
}

func streamDirectory(directoryPath string, relativeDirectoryPath string, rules filter.Rules, visitor ContentVisitor) error {
	listing, listError := rules.ListDirectory(directoryPath)
	if listError != nil {
		return listError
	}

	for _, fileName := range listing.Files {
		relativeFilePath := childRelativePath(relativeDirectoryPath, fileName)
		if !rules.ShouldInclude(relativeFilePath) {
			continue
		}
		fileOutput := readFileOutput(filepath.Join(directoryPath, fileName), relativeFilePath)
		if visitor != nil {
			if visitError := visitor(fileOutput); visitError != nil {
				return visitError
			}
		}
	}

	for _, subdirectoryName := range listing.Subdirectories {
		subdirectoryPath := filepath.Join(directoryPath, subdirectoryName)
		if streamError := streamDirectory(subdirectoryPath, childRelativePath(relativeDirectoryPath, subdirectoryName), rules, visitor); streamError != nil {
			return streamError
		}
	}
	return nil
}

// readFileOutput loads a file as UTF-8 text. Failures are recorded on the result instead of returned.
func readFileOutput(filePath string, relativeFilePath string) types.FileOutput {
	fileOutput := types.FileOutput{
		Path:         filePath,
		RelativePath: relativeFilePath,
	}

	// #nosec G304
	fileBytes, fileReadError := os.ReadFile(filePath)
	if fileReadError != nil {
		fileOutput.ReadError = fileReadError
		return fileOutput
	}
	fileOutput.SizeBytes = int64(len(fileBytes))

	fileContent, decodeError := utils.DecodeText(fileBytes)
	if decodeError != nil {
		fileOutput.ReadError = decodeError
		return fileOutput
	}
	fileOutput.Content = fileContent
	return fileOutput
}
