// Package engine holds the pure habit logic: recurrence evaluation,
// completion ledger transitions, streak computation and statistics
// aggregation. Nothing here performs I/O or keeps state; every operation
// maps input values to output values so the service layer can persist the
// results however it wants.
package engine

import (
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// IsScheduled reports whether the habit is due on day. It is the single
// source of truth for "due today", used by ledger writes and by the
// statistics denominator alike. Always false before createdAt.
func IsScheduled(rec entity.Recurrence, createdAt, day date.Local) bool {
	if day.IsZero() || createdAt.IsZero() || day.Before(createdAt) {
		return false
	}
	switch rec.Kind {
	case entity.RecurrenceDaily:
		return true
	case entity.RecurrenceWeeklyDays:
		wd := day.Weekday()
		for _, d := range rec.Days {
			if d == wd {
				return true
			}
		}
	}
	return false
}

// PrevScheduled finds the latest date strictly before day on which the
// habit was scheduled. The walk is bounded: a valid WeeklyDays rule hits
// within 7 days and Daily within 1, so 7 steps always suffice. Reports
// false when the walk crosses createdAt without a hit.
func PrevScheduled(rec entity.Recurrence, createdAt, day date.Local) (date.Local, bool) {
	cur := day.Prev()
	for i := 0; i < 7 && !cur.Before(createdAt); i++ {
		if IsScheduled(rec, createdAt, cur) {
			return cur, true
		}
		cur = cur.Prev()
	}
	return date.Local{}, false
}
