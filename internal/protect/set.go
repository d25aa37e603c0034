package protect

import (
	"slices"
	"sort"
)

// Set is the protected-path set: sorted ascending, deduplicated,
// immutable after construction. Membership is an exact string match
// against canonical paths.
type Set struct {
	paths []string
}

// NewSet builds a Set from canonical paths, sorting and deduplicating.
func NewSet(paths []string) Set {
	s := slices.Clone(paths)
	sort.Strings(s)
	s = slices.Compact(s)
	return Set{paths: s}
}

// Contains reports whether the exact path is protected.
func (s Set) Contains(path string) bool {
	_, ok := slices.BinarySearch(s.paths, path)
	return ok
}

// Paths returns a copy of the protected paths in sorted order.
func (s Set) Paths() []string {
	return slices.Clone(s.paths)
}

func (s Set) Len() int {
	return len(s.paths)
}
