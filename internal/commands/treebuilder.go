package commands

import "github.com/temirov/codesnap/internal/filter"

// TreeBuilder builds directory tree nodes using the configured rules.
type TreeBuilder struct {
	Rules filter.Rules
}
