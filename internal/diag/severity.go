package diag

// Severity ranks a diagnostic. Only SevError affects exit codes and
// emission gating; the other two are advisory.
type Severity uint8

const (
	// SevInfo carries pipeline notes (skipped emission, timings).
	SevInfo Severity = iota
	// SevWarning flags suspicious but accepted code.
	SevWarning
	// SevError marks a rule violation; the build fails.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
