package safety

import (
	"log"

	"safe-rm/internal/protect"
)

// FilterArgs splits the raw argument list into arguments to forward and
// arguments naming protected paths. Kept arguments preserve input order
// and exact byte content; flags and names of already-deleted files pass
// through because normalization degrades to identity for them. Each
// dropped argument is reported by its original spelling.
func FilterArgs(args []string, protected protect.Set, logger *log.Logger) (kept, skipped []string) {
	for _, arg := range args {
		if protected.Contains(NormalizePath(arg)) {
			logger.Printf("safe-rm: Skipping %s.", arg)
			skipped = append(skipped, arg)
			continue
		}
		kept = append(kept, arg)
	}
	return kept, skipped
}
