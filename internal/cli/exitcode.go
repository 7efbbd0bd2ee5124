package cli

import (
	"errors"

	"github.com/blakesmith/whisperdb/whisper"
)

// exitCodeFor maps an error returned by the whisper core (or the CLI
// layer itself) to a process exit code, per the taxonomy in spec.md §7.
// This is the only place in the repository that performs this mapping;
// the core package never calls os.Exit or inspects exit codes itself.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, whisper.ErrSchemaInvalid):
		return 2
	case errors.Is(err, whisper.ErrPointInFuture):
		return 3
	case errors.Is(err, whisper.ErrPointOutsideRetention):
		return 4
	case errors.Is(err, whisper.ErrHeaderCorrupt):
		return 5
	default:
		return 1
	}
}
