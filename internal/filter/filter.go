// Package filter decides which directories are walked and which files have their content dumped.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/codesnap/internal/types"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be enumerated.
	errorReadDirectoryFormat = "reading directory %s: %w"

	extensionSeparator = "."
)

// Rules holds the static inclusion and exclusion sets for one run.
type Rules struct {
	AllowedExtensions  types.NameSet
	IgnoredDirectories types.NameSet
	IgnoredFiles       types.NameSet
}

// DirectoryListing is the filtered content of a single directory.
// Both slices hold bare names in lexicographic order.
type DirectoryListing struct {
	Subdirectories []string
	Files          []string
}

// ShouldDescend reports whether a directory with the given bare name may be listed and walked.
func (rules Rules) ShouldDescend(directoryName string) bool {
	return !rules.IgnoredDirectories.Contains(directoryName)
}

// ShouldInclude reports whether the content of the file at filePath belongs in the snapshot:
// its bare name is not ignored and its extension is allowed.
func (rules Rules) ShouldInclude(filePath string) bool {
	fileName := BaseName(filePath)
	if rules.IgnoredFiles.Contains(fileName) {
		return false
	}
	extension := Extension(fileName)
	if extension == "" {
		return false
	}
	return rules.AllowedExtensions.Contains(extension)
}

// ListDirectory enumerates directoryPath, dropping ignored subdirectories.
// Symbolic links that resolve to directories are neither listed nor followed;
// every other non-directory entry is reported as a file.
func (rules Rules) ListDirectory(directoryPath string) (DirectoryListing, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return DirectoryListing{}, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	var listing DirectoryListing
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		switch {
		case directoryEntry.IsDir():
			if rules.ShouldDescend(entryName) {
				listing.Subdirectories = append(listing.Subdirectories, entryName)
			}
		case isLinkedDirectory(directoryPath, directoryEntry):
			continue
		default:
			listing.Files = append(listing.Files, entryName)
		}
	}
	return listing, nil
}

// EligibleSubdirectories returns the bare names of the subdirectories of directoryPath
// that traversal may descend into.
func (rules Rules) EligibleSubdirectories(directoryPath string) ([]string, error) {
	listing, listError := rules.ListDirectory(directoryPath)
	if listError != nil {
		return nil, listError
	}
	return listing.Subdirectories, nil
}

// pathSeparators holds "/" and the platform separator, so a backslash is an ordinary
// file name character on POSIX systems.
var pathSeparators = "/" + string(filepath.Separator)

// BaseName returns the final element of path. A path ending in a separator has an empty base name.
func BaseName(path string) string {
	lastSeparator := strings.LastIndexAny(path, pathSeparators)
	return path[lastSeparator+1:]
}

// Extension returns the extension of the final path element including its dot.
// Leading dots never start an extension, so ".json" has none while ".eslintrc.json" has ".json".
func Extension(path string) string {
	fileName := strings.TrimLeft(BaseName(path), extensionSeparator)
	dotIndex := strings.LastIndex(fileName, extensionSeparator)
	if dotIndex < 0 {
		return ""
	}
	return fileName[dotIndex:]
}

func isLinkedDirectory(directoryPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(filepath.Join(directoryPath, directoryEntry.Name()))
	return statError == nil && targetInfo.IsDir()
}
