package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/prtrack/internal/application"
	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

// Ayu palette, adaptive light/dark.
var (
	colorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	passStyle     = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn)
	failStyle     = lipgloss.NewStyle().Foreground(colorFail)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	accentStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

const (
	iconPass = "✓"
	iconWarn = "⚠"
	iconFail = "✗"
	iconInfo = "ℹ"

	treeLast = "└─ "

	summaryWidth = 80
)

// FailMessage formats an error the way main prints it.
func FailMessage(err error) string {
	return failStyle.Render(iconFail+" ") + err.Error()
}

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityCritical:
		return failStyle.Bold(true)
	case model.SeverityMajor:
		return warnStyle
	case model.SeverityMinor:
		return accentStyle
	default:
		return mutedStyle
	}
}

// summarize returns the first paragraph of the body that carries prose
// rather than only bot markers, truncated to summaryWidth runes.
func summarize(body string) string {
	paragraphs := plainParagraphs(body)
	for i, p := range paragraphs {
		if i == 0 && len(paragraphs) > 1 {
			if pr, sv := model.ParseMarkers(p); pr != model.PriorityUnknown || sv != model.SeverityUnknown {
				continue
			}
		}
		return truncate(p, summaryWidth)
	}
	return ""
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

func location(c model.Comment) string {
	if c.Line == nil {
		return c.Path
	}
	return fmt.Sprintf("%s:%d", c.Path, *c.Line)
}

// commentFlags lists the state markers shown after a comment's location.
func commentFlags(c model.Comment) string {
	var flags []string
	if c.GitHubResolved {
		flags = append(flags, "resolved")
	}
	if c.WaitingReply {
		flags = append(flags, "snoozed")
	}
	if c.Outdated {
		flags = append(flags, "outdated")
	}
	if !c.HasThread() {
		flags = append(flags, "no thread")
	}
	if len(flags) == 0 {
		return ""
	}
	return " " + mutedStyle.Render("("+strings.Join(flags, ", ")+")")
}

func renderCommentLine(w io.Writer, c model.Comment) {
	label := fmt.Sprintf("[%s/%s]", c.Severity, c.Priority)
	fmt.Fprintf(w, "#%d %s %s%s\n", c.ID, severityStyle(c.Severity).Render(label), location(c), commentFlags(c))
	if s := summarize(c.Body); s != "" {
		fmt.Fprintf(w, "   %s%s\n", mutedStyle.Render(treeLast), s)
	}
}

func renderCommentList(w io.Writer, comments []model.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No comments."))
		return
	}
	for _, c := range comments {
		renderCommentLine(w, c)
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d comment(s)", len(comments))))
}

func renderDetail(w io.Writer, d *application.CommentDetail) {
	c := d.Comment
	renderCommentLine(w, c)

	fmt.Fprintf(w, "%s %s  %s %s\n",
		mutedStyle.Render("author"), c.User,
		mutedStyle.Render("first seen"), c.FirstSeen.Local().Format("2006-01-02 15:04"))
	if c.ThreadID != "" {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("thread"), c.ThreadID)
	}
	if c.ResolvedCommit != "" {
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("resolved in"), c.ResolvedCommit)
	}
	if c.WaitingReply {
		fmt.Fprintf(w, "%s waiting for more than %d replies\n", mutedStyle.Render("snoozed"), c.SnoozedReplyCount)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.TrimRight(c.Body, "\n"))

	if c.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, categoryStyle.Render("Notes"))
		fmt.Fprintln(w, c.Notes)
	}

	if len(d.Replies) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, categoryStyle.Render(fmt.Sprintf("Replies (%d)", len(d.Replies))))
		for _, r := range d.Replies {
			fmt.Fprintf(w, "%s %s\n", accentStyle.Render(r.User), mutedStyle.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")))
			fmt.Fprintln(w, strings.TrimRight(r.Body, "\n"))
		}
	}
}

func renderSyncSummary(w io.Writer, s *model.SyncSummary) {
	fmt.Fprintf(w, "%s Synced PR #%d: %d new, %d updated, %d replies\n",
		passStyle.Render(iconPass), s.PRNumber, s.New, s.Updated, s.Replies)
	fmt.Fprintf(w, "  %s %d resolved, %d outdated threads\n",
		mutedStyle.Render(treeLast), s.ThreadsResolved, s.ThreadsOutdated)

	if s.AutoUnsnoozed > 0 {
		fmt.Fprintf(w, "%s %d snoozed comment(s) got new replies\n", accentStyle.Render(iconInfo), s.AutoUnsnoozed)
	}

	if len(s.CriticalPreview) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, failStyle.Bold(true).Render("Pending critical comments"))
	for _, c := range s.CriticalPreview {
		renderCommentLine(w, c)
	}
	if s.CriticalMore > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("+%d more", s.CriticalMore)))
	}
}

func renderStats(w io.Writer, s model.CommentStats) {
	fmt.Fprintln(w, categoryStyle.Render("Comments"))
	fmt.Fprintf(w, "  total     %d\n", s.Total)
	fmt.Fprintf(w, "  pending   %d\n", s.Pending)
	fmt.Fprintf(w, "  resolved  %d\n", s.Resolved)
	fmt.Fprintf(w, "  snoozed   %d\n", s.Snoozed)
	fmt.Fprintf(w, "  outdated  %d\n", s.Outdated)
	fmt.Fprintf(w, "  no thread %d\n", s.NoThread)

	fmt.Fprintln(w, categoryStyle.Render("By severity"))
	for _, sev := range []model.Severity{
		model.SeverityCritical, model.SeverityMajor, model.SeverityMinor, model.SeverityTrivial, model.SeverityUnknown,
	} {
		if n := s.BySeverity[sev]; n > 0 {
			// Pad before styling so escape codes do not count toward the width.
			fmt.Fprintf(w, "  %s %d\n", severityStyle(sev).Render(fmt.Sprintf("%-9s", sev)), n)
		}
	}

	fmt.Fprintln(w, categoryStyle.Render("By priority"))
	priorities := make([]string, 0, len(s.ByPriority))
	for p := range s.ByPriority {
		priorities = append(priorities, string(p))
	}
	sort.Strings(priorities)
	for _, p := range priorities {
		fmt.Fprintf(w, "  %-9s %d\n", p, s.ByPriority[model.Priority(p)])
	}
}

func renderOutcome(w io.Writer, id int64, outcome model.ResolveOutcome) {
	switch outcome {
	case model.OutcomeResolved:
		fmt.Fprintf(w, "%s Resolved #%d\n", passStyle.Render(iconPass), id)
	case model.OutcomeUnresolved:
		fmt.Fprintf(w, "%s Unresolved #%d\n", passStyle.Render(iconPass), id)
	case model.OutcomeStale:
		fmt.Fprintf(w, "%s #%d: thread no longer exists on GitHub, cleared local thread id\n",
			warnStyle.Render(iconWarn), id)
	default:
		fmt.Fprintf(w, "%s #%d: %s\n", failStyle.Render(iconFail), id, outcome)
	}
}

func renderGroups(w io.Writer, groups []model.OutdatedGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No outdated pending comments."))
		return
	}
	for _, g := range groups {
		header := fmt.Sprintf("%s (%d)", g.Path, len(g.Comments))
		if g.Deleted {
			header += " " + warnStyle.Render("deleted")
		}
		fmt.Fprintln(w, categoryStyle.Render(header))
		for _, c := range g.Comments {
			renderCommentLine(w, c)
		}
	}
}

func renderVerification(w io.Writer, v *model.Verification) {
	renderCommentLine(w, v.Comment)

	if !v.File.Exists {
		fmt.Fprintf(w, "%s %s no longer exists; safe to resolve with resolve-deleted\n",
			warnStyle.Render(iconWarn), v.Comment.Path)
		return
	}

	if v.LikelyAddressed {
		fmt.Fprintf(w, "%s file modified %s after the comment was first seen; likely addressed\n",
			passStyle.Render(iconPass), model.FormatGap(v.Gap))
	} else {
		fmt.Fprintf(w, "%s file not modified since the comment was first seen\n", warnStyle.Render(iconWarn))
	}

	if len(v.RecentCommits) > 0 {
		fmt.Fprintln(w, categoryStyle.Render("Recent commits"))
		for _, commit := range v.RecentCommits {
			fmt.Fprintf(w, "  %s\n", commit)
		}
	}

	v.SuggestedCommit.WhenSome(func(sha string) {
		fmt.Fprintf(w, "%s prtrack resolve %d --commit %s\n", mutedStyle.Render("suggested:"), v.Comment.ID, sha)
	})
}

func renderBatchResult(w io.Writer, r *model.BatchResult) {
	for _, id := range r.Resolved {
		renderOutcome(w, id, model.OutcomeResolved)
	}
	for _, id := range r.Stale {
		renderOutcome(w, id, model.OutcomeStale)
	}
	fmt.Fprintf(w, "%d resolved, %d stale\n", len(r.Resolved), len(r.Stale))
}
