package model

import "strings"

// marker pairs a substring emitted by the review bot with the value it maps to.
type marker[T any] struct {
	text  string
	value T
}

// The bot owns this format. Matching is a plain substring test against the
// first line of the body, checked in table order.
var priorityMarkers = []marker[Priority]{
	{text: "⚠️ Potential issue", value: PriorityIssue},
	{text: "🛠️ Refactor suggestion", value: PriorityRefactor},
	{text: "🧹 Nitpick", value: PriorityNitpick},
}

var severityMarkers = []marker[Severity]{
	{text: "🔴 Critical", value: SeverityCritical},
	{text: "🟠 Major", value: SeverityMajor},
	{text: "🟡 Minor", value: SeverityMinor},
	{text: "🔵 Trivial", value: SeverityTrivial},
}

// ParseMarkers derives priority and severity from the first line of a
// comment body. Markers further down the body are ignored.
func ParseMarkers(body string) (Priority, Severity) {
	firstLine, _, _ := strings.Cut(body, "\n")

	return matchMarker(firstLine, priorityMarkers, PriorityUnknown),
		matchMarker(firstLine, severityMarkers, SeverityUnknown)
}

func matchMarker[T any](line string, table []marker[T], fallback T) T {
	for _, m := range table {
		if strings.Contains(line, m.text) {
			return m.value
		}
	}
	return fallback
}
