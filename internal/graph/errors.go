package graph

import "strings"

// CycleError represents a cycle in the module import graph. Path lists the
// module names along the cycle; the first and last entries are the same
// module.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "module import cycle detected"
	}
	return "module import cycle: " + strings.Join(e.Path, " -> ")
}
