package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/nova/internal/audit"
	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Project restricts entries to one project. Empty means every project.
	Project string

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by OS user.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// entryFilter reports whether an audit entry should be shown.
type entryFilter func(audit.Entry) bool

// Log reads and filters the audit log. A missing log yields no entries.
// Entries are in file order, oldest first, unless Reverse is set. Limit keeps
// the most recent entries either way.
//
// Returns ErrInvalidDateFormat if a date filter cannot be parsed.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	filters, err := buildFilters(opts)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	var kept []audit.Entry
	for _, e := range entries {
		if matchesAll(filters, e) {
			kept = append(kept, e)
		}
	}

	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[len(kept)-opts.Limit:]
	}
	if opts.Reverse {
		slices.Reverse(kept)
	}

	return &LogResult{Entries: kept, TotalEntriesBeforeFilter: len(entries)}, nil
}

// buildFilters turns the options into filters. Dates are validated before the
// log is read so a bad flag fails even when the log is empty.
func buildFilters(opts LogOptions) ([]entryFilter, error) {
	var filters []entryFilter

	if opts.Project != "" {
		filters = append(filters, func(e audit.Entry) bool { return e.Project == opts.Project })
	}
	if opts.User != "" {
		filters = append(filters, func(e audit.Entry) bool { return strings.EqualFold(e.User, opts.User) })
	}
	if opts.Operations != "" {
		ops := make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			ops[strings.ToLower(strings.TrimSpace(op))] = true
		}
		filters = append(filters, func(e audit.Entry) bool { return ops[strings.ToLower(e.Operation)] })
	}

	if opts.Since != "" {
		since, err := time.Parse(dateLayout, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", nerrors.ErrInvalidDateFormat)
		}
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && !t.Before(since)
		})
	}
	if opts.Until != "" {
		until, err := time.Parse(dateLayout, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", nerrors.ErrInvalidDateFormat)
		}
		// Until is inclusive of the whole day.
		end := until.AddDate(0, 0, 1)
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := parseTimestamp(e.Timestamp)
			return ok && t.Before(end)
		})
	}

	return filters, nil
}

func matchesAll(filters []entryFilter, e audit.Entry) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000Z"
)

// parseTimestamp accepts the log's own layout and plain RFC 3339.
func parseTimestamp(ts string) (time.Time, bool) {
	if t, err := time.Parse(timestampLayout, ts); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, ts)
	return t, err == nil
}

// formatTimestamp renders ts with layout, or the first width characters of ts
// when it cannot be parsed.
func formatTimestamp(ts, layout string, width int) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Format(layout)
	}
	if len(ts) >= width {
		return ts[:width]
	}
	return ts
}

// FormatDate formats a timestamp as YYYY-MM-DD.
func FormatDate(ts string) string {
	return formatTimestamp(ts, dateLayout, 10)
}

// FormatDateTime formats a timestamp as YYYY-MM-DD HH:MM:SS.
func FormatDateTime(ts string) string {
	return formatTimestamp(ts, "2006-01-02 15:04:05", 19)
}

// FormatDetails lists the paths of an entry, collapsing long lists to a count.
func FormatDetails(e audit.Entry) string {
	switch {
	case len(e.Paths) == 0:
		return ""
	case len(e.Paths) > 3:
		return fmt.Sprintf("%d files", len(e.Paths))
	default:
		return strings.Join(e.Paths, ", ")
	}
}
