package runner

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"safe-rm/internal/exitcodes"
	"safe-rm/internal/safety"
)

// DefaultRmBinary is forwarded to when neither the wrapper config nor
// the environment names the real rm.
const DefaultRmBinary = "/bin/rm"

// RealRmEnv overrides the real rm binary, e.g.
// SAFE_RM_REAL_RM=/bin/rm.real
const RealRmEnv = "SAFE_RM_REAL_RM"

// Invoker abstracts spawning the real deletion binary
// Enables faking in tests to prove filtering without deleting anything
type Invoker interface {
	Run(binary string, args []string) (int, error)
}

// OSInvoker runs the binary synchronously with inherited stdio.
type OSInvoker struct{}

func (OSInvoker) Run(binary string, args []string) (int, error) {
	cmd := exec.Command(binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal, no exit code to relay.
		return exitcodes.Failure, nil
	}
	return exitcodes.Failure, err
}

// FakeInvoker records the invocation instead of spawning anything.
type FakeInvoker struct {
	Binary string
	Args   []string
	Code   int
	Err    error
}

func (f *FakeInvoker) Run(binary string, args []string) (int, error) {
	f.Binary = binary
	f.Args = append([]string(nil), args...)
	return f.Code, f.Err
}

// Resolve picks the real rm binary: wrapper config first, then the
// SAFE_RM_REAL_RM environment value (normalized, the real binary may
// itself sit behind a symlink), then DefaultRmBinary.
func Resolve(configured, env string) string {
	if configured != "" {
		return configured
	}
	if env != "" {
		return safety.NormalizePath(env)
	}
	return DefaultRmBinary
}

// EnsureNotSelf reports whether the target binary resolves to the
// wrapper's own executable, which would recurse forever. An error means
// the check could not be performed at all; callers warn and continue,
// since the spawn failure that follows is the real signal.
func EnsureNotSelf(binary string) (bool, error) {
	target, err := canonicalExe(binary)
	if err != nil {
		return false, err
	}
	self, err := os.Executable()
	if err != nil {
		return false, err
	}
	selfReal, err := canonicalExe(self)
	if err != nil {
		return false, err
	}
	return target == selfReal, nil
}

func canonicalExe(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Forward runs the real rm with the filtered arguments and relays its
// exit status. A spawn failure is the one fatal condition in the whole
// pipeline.
func Forward(inv Invoker, binary string, args []string, logger *log.Logger) int {
	code, err := inv.Run(binary, args)
	if err != nil {
		logger.Printf("safe-rm: Failed to run the %s command.", binary)
		return exitcodes.Failure
	}
	return code
}
