// Package utils contains general helper functions used across the snapshot tool.
package utils

import (
	"path/filepath"
)

// CurrentDirectoryPrefix starts every relative path printed in the content section.
const CurrentDirectoryPrefix = "./"

// DisplayPath renders a forward-slash relative path rooted at "./", the way the
// snapshot names files in its content section.
func DisplayPath(relativePath string) string {
	if relativePath == "" || relativePath == "." {
		return "."
	}
	return CurrentDirectoryPrefix + filepath.ToSlash(relativePath)
}
