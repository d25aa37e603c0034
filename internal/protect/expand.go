package protect

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MaxGlobExpansion caps how many paths a single configuration line may
// contribute. Overly broad patterns like /** are truncated, not fatal.
const MaxGlobExpansion = 256

// ErrBadPattern reports a configuration line that is not valid glob syntax.
var ErrBadPattern = doublestar.ErrBadPattern

// Expansion is the outcome of expanding one configuration line. A line
// either fails as a whole with ErrBadPattern or expands, possibly to
// nothing and possibly truncated. Per-entry problems are collected in
// Skipped so the caller can phrase diagnostics without aborting the file.
type Expansion struct {
	Paths     []string
	Skipped   []string // matches that could not be stat'd
	Truncated bool
}

var errBudget = errors.New("expansion budget reached")

// Expand enumerates the filesystem entries matched by one configuration
// line. Trailing separators are stripped first, so a literal "/tmp/"
// yields "/tmp". A literal line naming a missing path yields nothing.
// Enumeration stops as soon as the budget is reached.
func Expand(line string) (Expansion, error) {
	var exp Expansion

	pattern := strings.TrimRight(line, "/")
	if pattern == "" {
		if line != "" {
			// The line was nothing but separators: the root itself.
			exp.Paths = append(exp.Paths, "/")
		}
		return exp, nil
	}

	// The glob syntax understood here has no star runs longer than **.
	if strings.Contains(pattern, "***") || !doublestar.ValidatePattern(pattern) {
		return Expansion{}, ErrBadPattern
	}

	// fs.FS patterns are always relative, so absolute patterns walk a
	// filesystem rooted at /.
	fsys := os.DirFS(".")
	prefix := ""
	if strings.HasPrefix(pattern, "/") {
		fsys = os.DirFS("/")
		prefix = "/"
		pattern = strings.TrimLeft(pattern, "/")
	}

	err := doublestar.GlobWalk(fsys, pattern, func(match string, _ fs.DirEntry) error {
		if len(exp.Paths) >= MaxGlobExpansion {
			exp.Truncated = true
			return errBudget
		}
		path := prefix + match
		if _, err := os.Lstat(path); err != nil {
			exp.Skipped = append(exp.Skipped, path)
			return nil
		}
		exp.Paths = append(exp.Paths, path)
		return nil
	})
	if err != nil && !errors.Is(err, errBudget) {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return Expansion{}, ErrBadPattern
		}
		// Walk errors on the root itself behave like no match.
		return exp, nil
	}
	return exp, nil
}
