// Package types defines every cross‑package data structure used by the codesnap CLI.
package types

import "sort"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
)

// NameSet is an immutable set of bare names or extensions.
// The zero value is an empty set.
type NameSet struct {
	members map[string]struct{}
}

// NewNameSet builds a NameSet from the provided values, dropping duplicates.
func NewNameSet(values ...string) NameSet {
	members := make(map[string]struct{}, len(values))
	for _, value := range values {
		members[value] = struct{}{}
	}
	return NameSet{members: members}
}

// Contains reports whether value is a member of the set. Matching is case-sensitive.
func (set NameSet) Contains(value string) bool {
	_, exists := set.members[value]
	return exists
}

// Len returns the number of members.
func (set NameSet) Len() int {
	return len(set.members)
}

// Values returns the members in lexicographic order.
func (set NameSet) Values() []string {
	values := make([]string, 0, len(set.members))
	for value := range set.members {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// TreeOutputNode represents a node of the filtered directory tree.
type TreeOutputNode struct {
	Path         string
	RelativePath string
	Name         string
	Type         string
	Depth        int
	Children     []*TreeOutputNode
}

// FileOutput represents one file selected by the content dumper.
// When ReadError is non-nil Content is empty and the renderer emits a placeholder.
type FileOutput struct {
	Path         string
	RelativePath string
	Content      string
	SizeBytes    int64
	ReadError    error
}

// OutputSummary captures aggregate information about a generated snapshot.
type OutputSummary struct {
	TotalFiles      int
	UnreadableFiles int
	TotalBytes      int64
	TotalSize       string
	TotalTokens     int
	Model           string
}
