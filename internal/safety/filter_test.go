package safety

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"safe-rm/internal/protect"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestFilterDropsProtected(t *testing.T) {
	tmpDir := realTempDir(t)
	home := filepath.Join(tmpDir, "home")
	home2 := filepath.Join(tmpDir, "home2")
	if err := os.Mkdir(home, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(home2, 0o755); err != nil {
		t.Fatal(err)
	}

	protected := protect.NewSet([]string{home})
	kept, skipped := FilterArgs([]string{home, home2}, protected, discardLogger())

	if !slices.Equal(kept, []string{home2}) {
		t.Errorf("kept = %v, expected [%s]", kept, home2)
	}
	if !slices.Equal(skipped, []string{home}) {
		t.Errorf("skipped = %v, expected [%s]", skipped, home)
	}
}

func TestFilterPreservesOrderAndBytes(t *testing.T) {
	tmpDir := realTempDir(t)
	blocked := filepath.Join(tmpDir, "blocked")
	touch(t, blocked)
	weird := filepath.Join(tmpDir, "name with spaces")
	touch(t, weird)

	protected := protect.NewSet([]string{blocked})
	args := []string{"-rf", weird, blocked, "--help", "nonexistent-file"}

	kept, _ := FilterArgs(args, protected, discardLogger())
	want := []string{"-rf", weird, "--help", "nonexistent-file"}
	if !slices.Equal(kept, want) {
		t.Errorf("kept = %v, expected %v", kept, want)
	}
}

func TestFilterEmptySetPassesEverything(t *testing.T) {
	args := []string{"--help"}
	kept, skipped := FilterArgs(args, protect.NewSet(nil), discardLogger())
	if !slices.Equal(kept, args) || len(skipped) != 0 {
		t.Errorf("kept = %v skipped = %v, expected full pass-through", kept, skipped)
	}
}

func TestFilterSymlinkToProtectedPasses(t *testing.T) {
	tmpDir := realTempDir(t)
	target := filepath.Join(tmpDir, "usr")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	// Only the target is protected; the link is judged by its own path.
	protected := protect.NewSet([]string{target})
	kept, skipped := FilterArgs([]string{link, target}, protected, discardLogger())

	if !slices.Equal(kept, []string{link}) {
		t.Errorf("kept = %v, expected [%s]", kept, link)
	}
	if !slices.Equal(skipped, []string{target}) {
		t.Errorf("skipped = %v, expected [%s]", skipped, target)
	}
}

func TestFilterDropsSymlinkListedByOwnPath(t *testing.T) {
	tmpDir := realTempDir(t)
	target := filepath.Join(tmpDir, "target")
	touch(t, target)
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	protected := protect.NewSet([]string{link})
	kept, skipped := FilterArgs([]string{link, target}, protected, discardLogger())

	if !slices.Equal(kept, []string{target}) {
		t.Errorf("kept = %v, expected [%s]", kept, target)
	}
	if !slices.Equal(skipped, []string{link}) {
		t.Errorf("skipped = %v, expected [%s]", skipped, link)
	}
}

func TestFilterReportsOriginalSpelling(t *testing.T) {
	tmpDir := realTempDir(t)
	file := filepath.Join(tmpDir, "file")
	touch(t, file)

	// Argument spelled with a dot segment still matches, and the
	// original spelling is what gets reported.
	arg := tmpDir + "/./file"
	protected := protect.NewSet([]string{file})

	var buf strings.Builder
	logger := log.New(&buf, "", 0)
	kept, skipped := FilterArgs([]string{arg}, protected, logger)

	if len(kept) != 0 {
		t.Errorf("kept = %v, expected nothing", kept)
	}
	if !slices.Equal(skipped, []string{arg}) {
		t.Errorf("skipped = %v, expected [%s]", skipped, arg)
	}
	if !strings.Contains(buf.String(), "safe-rm: Skipping "+arg+".") {
		t.Errorf("notice %q does not name the original argument", buf.String())
	}
}

// TestFilterAgainstLoadedGlobSet runs the loader and the filter
// together: a glob-configured directory protects its files but nothing
// outside it.
func TestFilterAgainstLoadedGlobSet(t *testing.T) {
	tmpDir := realTempDir(t)
	dir := filepath.Join(tmpDir, "spool")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	file1 := filepath.Join(dir, "file1")
	file2 := filepath.Join(dir, "file2")
	outside := filepath.Join(tmpDir, "outside")
	touch(t, file1)
	touch(t, file2)
	touch(t, outside)

	cfg := filepath.Join(tmpDir, "protect.conf")
	if err := os.WriteFile(cfg, []byte(filepath.Join(dir, "*")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &protect.Loader{Globals: []string{cfg}, Log: discardLogger()}
	protected := loader.Load()

	kept, skipped := FilterArgs([]string{file1, outside, file2}, protected, discardLogger())
	if !slices.Equal(kept, []string{outside}) {
		t.Errorf("kept = %v, expected [%s]", kept, outside)
	}
	if !slices.Equal(skipped, []string{file1, file2}) {
		t.Errorf("skipped = %v, expected [%s %s]", skipped, file1, file2)
	}
}
