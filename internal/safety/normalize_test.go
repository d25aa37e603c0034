package safety

import (
	"os"
	"path/filepath"
	"testing"
)

// realTempDir returns a t.TempDir with its own symlinks resolved, so
// expectations can be compared against canonical output.
func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tmpDir := realTempDir(t)
	file := filepath.Join(tmpDir, "file.txt")
	touch(t, file)

	once := NormalizePath(file)
	twice := NormalizePath(once)
	if once != twice {
		t.Errorf("normalize not idempotent: %q then %q", once, twice)
	}
}

func TestNormalizeIdentityCases(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"empty string", ""},
		{"missing path", "/no/such/path/at/all"},
		{"long flag", "--help"},
		{"short flags", "-rf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.arg); got != tt.arg {
				t.Errorf("NormalizePath(%q) = %q, expected identity", tt.arg, got)
			}
		})
	}
}

func TestNormalizeRoot(t *testing.T) {
	if got := NormalizePath("/"); got != "/" {
		t.Errorf("NormalizePath(/) = %q", got)
	}
}

func TestNormalizeRelativePath(t *testing.T) {
	tmpDir := realTempDir(t)
	file := filepath.Join(tmpDir, "rel.txt")
	touch(t, file)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	}()

	if got := NormalizePath("rel.txt"); got != file {
		t.Errorf("NormalizePath(rel.txt) = %q, expected %q", got, file)
	}
}

func TestNormalizeStripsDotSegments(t *testing.T) {
	tmpDir := realTempDir(t)
	if err := os.Mkdir(filepath.Join(tmpDir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(tmpDir, "file.txt")
	touch(t, file)

	arg := filepath.Join(tmpDir, "sub", "..", "file.txt")
	if got := NormalizePath(arg); got != file {
		t.Errorf("NormalizePath(%q) = %q, expected %q", arg, got, file)
	}
}

func TestNormalizeSymlinkKeepsOwnIdentity(t *testing.T) {
	tmpDir := realTempDir(t)
	target := filepath.Join(tmpDir, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	got := NormalizePath(link)
	if got != link {
		t.Errorf("NormalizePath(symlink) = %q, expected the link's own path %q", got, link)
	}
	if got == NormalizePath(target) {
		t.Error("symlink normalized into its target")
	}
}

func TestNormalizeDanglingSymlink(t *testing.T) {
	tmpDir := realTempDir(t)
	link := filepath.Join(tmpDir, "dangling")
	if err := os.Symlink(filepath.Join(tmpDir, "gone"), link); err != nil {
		t.Fatal(err)
	}

	if got := NormalizePath(link); got != link {
		t.Errorf("NormalizePath(dangling symlink) = %q, expected %q", got, link)
	}
}

func TestNormalizeSymlinkBehindSymlinkedParent(t *testing.T) {
	tmpDir := realTempDir(t)
	realDir := filepath.Join(tmpDir, "real")
	if err := os.Mkdir(realDir, 0o755); err != nil {
		t.Fatal(err)
	}
	dirLink := filepath.Join(tmpDir, "dirlink")
	if err := os.Symlink(realDir, dirLink); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(tmpDir, "target")
	touch(t, target)
	inner := filepath.Join(realDir, "inner")
	if err := os.Symlink(target, inner); err != nil {
		t.Fatal(err)
	}

	// The parent resolves through dirlink, the final component stays.
	got := NormalizePath(filepath.Join(dirLink, "inner"))
	if got != inner {
		t.Errorf("NormalizePath(%s/inner) = %q, expected %q", dirLink, got, inner)
	}
}

func TestSymlinkCanonicalizeDotDot(t *testing.T) {
	tmpDir := realTempDir(t)
	sub := filepath.Join(tmpDir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := symlinkCanonicalize(filepath.Join(sub, ".."))
	if !ok {
		t.Fatal("symlinkCanonicalize failed")
	}
	if got != tmpDir {
		t.Errorf("symlinkCanonicalize(sub/..) = %q, expected %q", got, tmpDir)
	}
}
