package model

// Priority is the comment category advertised by the review bot.
type Priority string

const (
	PriorityIssue    Priority = "issue"
	PriorityRefactor Priority = "refactor"
	PriorityNitpick  Priority = "nitpick"
	PriorityUnknown  Priority = "unknown"
)

// ParsePriority maps a user-supplied filter value to a Priority.
// The second return value is false for unrecognized input.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(s); p {
	case PriorityIssue, PriorityRefactor, PriorityNitpick, PriorityUnknown:
		return p, true
	default:
		return "", false
	}
}

// Severity is the impact level advertised by the review bot.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityTrivial  Severity = "trivial"
	SeverityUnknown  Severity = "unknown"
)

// ParseSeverity maps a user-supplied filter value to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch sv := Severity(s); sv {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeverityTrivial, SeverityUnknown:
		return sv, true
	default:
		return "", false
	}
}

// ResolveOutcome is the result of a resolve or unresolve attempt.
type ResolveOutcome string

const (
	OutcomeResolved   ResolveOutcome = "resolved"
	OutcomeUnresolved ResolveOutcome = "unresolved"
	OutcomeStale      ResolveOutcome = "stale"
	OutcomeFailed     ResolveOutcome = "failed"
)
