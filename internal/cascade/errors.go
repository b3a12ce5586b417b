package cascade

import "errors"

// The cascade distinguishes five failure kinds. Only ErrHostUnreachable is
// fatal to a resolution; everything else is absorbed by advancing to the
// next stage.
var (
	// ErrSourceUnavailable: the inventory or bridge behind a stage is not
	// reachable; the stage is skipped.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoMatch: the stage ran but scoring rejected every candidate.
	ErrNoMatch = errors.New("no match")

	// ErrRecognition: the external recognizer failed, timed out or is not
	// installed.
	ErrRecognition = errors.New("recognition failure")

	// ErrVerificationMismatch: activation happened but the active item's
	// descriptor does not confirm the chosen candidate.
	ErrVerificationMismatch = errors.New("verification mismatch")

	// ErrHostUnreachable: the target application cannot be focused at all.
	// No UI action is safe without focus, so the whole command fails.
	ErrHostUnreachable = errors.New("host unreachable")
)

// Fatal reports whether an error must abort the whole resolution instead of
// escalating to the next stage.
func Fatal(err error) bool {
	return errors.Is(err, ErrHostUnreachable)
}
