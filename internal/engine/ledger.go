package engine

import (
	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// RecordCompletion records a completion for day and returns the updated
// ledger value. The input ledger is never mutated. A repeat completion on
// an already-completed day only bumps the count and leaves the streak
// untouched; the first completion of a day runs the streak state machine
// and reports its event.
func RecordCompletion(led entity.Ledger, rec entity.Recurrence, createdAt, day date.Local, incrementBy int) (entity.Ledger, StreakEvent, error) {
	if day.IsZero() || createdAt.IsZero() || day.Before(createdAt) {
		return entity.Ledger{}, EventNone, errorvalues.ErrInvalidDate
	}
	if incrementBy < 1 {
		return entity.Ledger{}, EventNone, errorvalues.ErrInvalidIncrement
	}
	if !IsScheduled(rec, createdAt, day) {
		return entity.Ledger{}, EventNone, errorvalues.ErrNotScheduled
	}
	next := led.Clone()
	key := day.String()
	if next.History[key] > 0 {
		next.History[key] += incrementBy
		return next, EventNone, nil
	}
	next.History[key] = incrementBy
	streak, last, event := advanceStreak(led, rec, createdAt, day)
	next.Streak = streak
	next.LastCompleted = last
	return next, event, nil
}

// RemoveCompletion deletes the entry for day ("undo today") and rebuilds
// the derived streak state from the remaining history. Only the streak
// tail may be removed; deleting an interior date would silently corrupt
// the streak for every date after it.
func RemoveCompletion(led entity.Ledger, rec entity.Recurrence, createdAt, day date.Local) (entity.Ledger, error) {
	if day.IsZero() {
		return entity.Ledger{}, errorvalues.ErrInvalidDate
	}
	key := day.String()
	if led.History[key] <= 0 {
		return entity.Ledger{}, errorvalues.ErrCompletionNotFound
	}
	if !day.Equal(led.LastCompleted) {
		return entity.Ledger{}, errorvalues.ErrNotStreakTail
	}
	next := led.Clone()
	delete(next.History, key)
	next.Streak, next.LastCompleted = replayStreak(next, rec, createdAt)
	return next, nil
}
