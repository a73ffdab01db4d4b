package model

// CriticalPreviewLimit caps the critical comments listed after a sync.
const CriticalPreviewLimit = 5

// SyncSummary reports the deltas of one reconciliation cycle.
type SyncSummary struct {
	PRNumber        int
	New             int
	Updated         int
	Replies         int
	AutoUnsnoozed   int
	ThreadsResolved int
	ThreadsOutdated int

	CriticalPreview []Comment
	CriticalMore    int // Pending critical comments beyond the preview.
}
