package model

// CommentFilter narrows comment listings. Zero values mean "no constraint",
// except that resolved and snoozed comments are excluded unless requested.
type CommentFilter struct {
	IncludeResolved bool
	IncludeSnoozed  bool
	OnlySnoozed     bool
	OutdatedOnly    bool
	Priority        Priority
	Severity        Severity
	Path            string
	ExactPath       bool
}

// CommentStats aggregates comment counts for the stats view.
type CommentStats struct {
	Total      int
	Pending    int
	Resolved   int
	Snoozed    int
	Outdated   int
	NoThread   int
	ByPriority map[Priority]int
	BySeverity map[Severity]int
}
