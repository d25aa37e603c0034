package safety

import (
	"os"
	"path/filepath"
)

// NormalizePath canonicalizes a pathname into the form used for
// protected-set comparison. It never fails: anything that cannot be
// canonicalized (missing path, I/O error, flags like --help) comes back
// unchanged, so filtering degrades to pass-through.
//
// A symlink is judged by its own location, not its target: only the
// parent directory is canonicalized and the final component is kept.
// Deleting a symlink to /usr is not deleting /usr.
func NormalizePath(arg string) string {
	if arg == "" {
		// "" names nothing on any filesystem.
		return arg
	}
	if fi, err := os.Lstat(arg); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		if p, ok := symlinkCanonicalize(arg); ok {
			return p
		}
		return arg
	}
	if p, err := canonicalize(arg); err == nil {
		return p
	}
	return arg
}

// canonicalize resolves every symlink and relative segment, yielding an
// absolute clean path. Fails if any component does not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// symlinkCanonicalize computes the canonical location of the link
// itself: canonicalize the parent directory, rejoin the final component
// untouched.
func symlinkCanonicalize(path string) (string, bool) {
	// Relative paths need an explicit parent dir.
	explicit := path
	if !filepath.IsAbs(explicit) {
		explicit = "./" + explicit
	}

	parent, err := canonicalize(filepath.Dir(explicit))
	if err != nil {
		return "", false
	}
	if filepath.Base(path) == ".." {
		// Ascend once more; filepath.Dir stops at the root.
		return filepath.Dir(parent), true
	}
	return filepath.Join(parent, filepath.Base(path)), true
}
