package lifecycle

import (
	"strconv"
	"strings"
	"time"

	"github.com/vaais251/focusflow/internal/store"
)

// parseWeekdays reads a comma-separated list of weekday indices (0 = Sunday).
// Unparseable pieces are skipped.
func parseWeekdays(s string) map[int]bool {
	days := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[n] = true
	}
	return days
}

// ShouldSpawn reports whether a recurring template qualifies to produce a
// concrete task instance on the given calendar day. projectCompleted is the
// derived status of the linked project, relevant only when the template is
// configured to stop on project completion.
func ShouldSpawn(tpl store.Task, day time.Time, projectCompleted bool) bool {
	if !tpl.IsTemplate || !tpl.IsActive {
		return false
	}
	if tpl.StopOnProjectCompletion && projectCompleted {
		return false
	}
	if tpl.RecurringEnd != nil {
		end := midnight(*tpl.RecurringEnd, day.Location())
		if midnight(day, day.Location()).After(end) {
			return false
		}
	}
	days := parseWeekdays(tpl.RecurringDays)
	if len(days) == 0 {
		return true // empty set means every day
	}
	return days[int(day.Weekday())]
}
