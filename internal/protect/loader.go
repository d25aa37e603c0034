package protect

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Loader merges protected-path patterns from global and per-user
// configuration sources. Every location is an explicit field so tests
// can point the loader at temporary trees.
type Loader struct {
	Globals []string // absolute config file paths, always consulted
	Locals  []string // file names resolved under Home
	Home    string   // user home directory; empty skips Locals
	Log     *log.Logger
}

// NewLoader returns a loader wired to the standard config locations
// and the invoking user's home directory.
func NewLoader(logger *log.Logger) *Loader {
	return &Loader{
		Globals: []string{GlobalConfig, LocalGlobalConfig},
		Locals:  []string{UserConfig, LegacyUserConfig},
		Home:    os.Getenv("HOME"),
		Log:     logger,
	}
}

// Load reads every configured source in order and returns the merged
// protected set. Missing files contribute nothing; a merge that ends up
// empty falls back to DefaultPaths. The result is always sorted and
// deduplicated.
func (l *Loader) Load() Set {
	var paths []string
	for _, file := range l.Globals {
		paths = append(paths, l.readFile(file)...)
	}
	if l.Home != "" {
		for _, name := range l.Locals {
			paths = append(paths, l.readFile(filepath.Join(l.Home, name))...)
		}
	}
	if len(paths) == 0 {
		paths = append(paths, DefaultPaths...)
	}
	return NewSet(paths)
}

func (l *Loader) readFile(filename string) []string {
	if _, err := os.Lstat(filename); err != nil {
		// Not all config files are expected to be present.
		return nil
	}
	f, err := os.Open(filename)
	if err != nil {
		l.Log.Printf("safe-rm: Could not open configuration file: %s", filename)
		return nil
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) {
			l.Log.Printf("safe-rm: Ignoring unreadable line in %s.", filename)
			continue
		}
		paths = append(paths, l.expandLine(line, filename)...)
	}
	if err := scanner.Err(); err != nil {
		l.Log.Printf("safe-rm: Ignoring unreadable line in %s.", filename)
	}
	return paths
}

func (l *Loader) expandLine(line, filename string) []string {
	exp, err := Expand(line)
	if err != nil {
		l.Log.Printf("safe-rm: Invalid glob pattern %q found in %s and ignored.", line, filename)
		return nil
	}
	for range exp.Skipped {
		l.Log.Printf("safe-rm: Ignored unreadable path while expanding glob %q from %s.", line, filename)
	}
	if exp.Truncated {
		l.Log.Printf("safe-rm: Glob %q found in %s expands to more than %d paths. Ignoring the rest.",
			line, filename, MaxGlobExpansion)
	}
	return exp.Paths
}
