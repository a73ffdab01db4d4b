package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prtrack/internal/domain/model"
)

// parseIDs converts comment id arguments. A leading '#' is accepted.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid comment id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(arg string) (int64, error) {
	ids, err := parseIDs([]string{arg})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// listFilter is the flag set of the list command.
type listFilter struct {
	all       bool
	snoozed   bool
	outdated  bool
	priority  string
	severity  string
	path      string
	exactPath bool
}

func (f listFilter) toModel() (model.CommentFilter, error) {
	filter := model.CommentFilter{
		IncludeResolved: f.all,
		IncludeSnoozed:  f.all,
		OnlySnoozed:     f.snoozed,
		OutdatedOnly:    f.outdated,
		Path:            f.path,
		ExactPath:       f.exactPath,
	}

	if f.priority != "" {
		p, ok := model.ParsePriority(strings.ToLower(f.priority))
		if !ok {
			return filter, fmt.Errorf("unknown priority %q (issue, refactor, nitpick, unknown)", f.priority)
		}
		filter.Priority = p
	}

	if f.severity != "" {
		s, ok := model.ParseSeverity(strings.ToLower(f.severity))
		if !ok {
			return filter, fmt.Errorf("unknown severity %q (critical, major, minor, trivial, unknown)", f.severity)
		}
		filter.Severity = s
	}

	return filter, nil
}
