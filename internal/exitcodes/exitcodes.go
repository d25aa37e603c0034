package exitcodes

// Exit codes for the safe-rm wrapper
// Failure covers every wrapper-side fatal condition: an unresolvable or
// self-referential rm binary, or a spawn failure. All other codes are
// relayed verbatim from the real rm.
const (
	Success = 0
	Failure = 1
)
