// Package commands contains the traversal logic behind both sections of a snapshot.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/temirov/codesnap/internal/types"
)

const (
	// rootDirectoryName is the name rendered for the traversal root.
	rootDirectoryName = "."

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"

	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
)

// GetTreeData builds the filtered directory tree rooted at rootDirectoryPath.
// Within each directory node the files come first, followed by the eligible
// subdirectories, each group in lexicographic order. A directory that cannot be
// enumerated fails the whole build.
func (treeBuilder *TreeBuilder) GetTreeData(rootDirectoryPath string) (*types.TreeOutputNode, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootNode := &types.TreeOutputNode{
		Path:         absoluteRootDirPath,
		RelativePath: rootDirectoryName,
		Name:         rootDirectoryName,
		Type:         types.NodeTypeDirectory,
		Depth:        0,
	}
	if buildError := treeBuilder.populate(rootNode); buildError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, buildError)
	}
	return rootNode, nil
}

// populate attaches the filtered children of directoryNode, recursing into subdirectories.
func (treeBuilder *TreeBuilder) populate(directoryNode *types.TreeOutputNode) error {
	listing, listError := treeBuilder.Rules.ListDirectory(directoryNode.Path)
	if listError != nil {
		return listError
	}

	childDepth := directoryNode.Depth + 1
	for _, fileName := range listing.Files {
		directoryNode.Children = append(directoryNode.Children, &types.TreeOutputNode{
			Path:         filepath.Join(directoryNode.Path, fileName),
			RelativePath: childRelativePath(directoryNode.RelativePath, fileName),
			Name:         fileName,
			Type:         types.NodeTypeFile,
			Depth:        childDepth,
		})
	}
	for _, subdirectoryName := range listing.Subdirectories {
		subdirectoryNode := &types.TreeOutputNode{
			Path:         filepath.Join(directoryNode.Path, subdirectoryName),
			RelativePath: childRelativePath(directoryNode.RelativePath, subdirectoryName),
			Name:         subdirectoryName,
			Type:         types.NodeTypeDirectory,
			Depth:        childDepth,
		}
		if buildError := treeBuilder.populate(subdirectoryNode); buildError != nil {
			return buildError
		}
		directoryNode.Children = append(directoryNode.Children, subdirectoryNode)
	}
	return nil
}

// childRelativePath joins a child name onto a forward-slash relative parent path.
func childRelativePath(parentRelativePath, childName string) string {
	if parentRelativePath == rootDirectoryName {
		return childName
	}
	return parentRelativePath + "/" + childName
}
