package engine

import (
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// StreakEvent describes what happened to the streak on a first
// completion of a day. Callers may use Started/Continued/Reset as
// milestone triggers for notifications or achievements.
type StreakEvent string

const (
	EventNone      StreakEvent = ""
	EventStarted   StreakEvent = "started"
	EventContinued StreakEvent = "continued"
	EventReset     StreakEvent = "reset"
)

// advanceStreak runs the streak state machine for the first completion
// recorded on day. The continuation check is recurrence-aware: the streak
// survives any gap that contains no *scheduled* occurrence, so a
// weekdays-only habit is not broken by a weekend.
func advanceStreak(led entity.Ledger, rec entity.Recurrence, createdAt, day date.Local) (streak int, last date.Local, event StreakEvent) {
	if led.LastCompleted.IsZero() {
		return 1, day, EventStarted
	}
	if day.Equal(led.LastCompleted) {
		// First-completion events for an already-completed day are
		// filtered out by RecordCompletion; defined for completeness.
		return led.Streak, led.LastCompleted, EventNone
	}
	if day.After(led.LastCompleted) {
		if prev, ok := PrevScheduled(rec, createdAt, day); ok && prev.Equal(led.LastCompleted) {
			return led.Streak + 1, day, EventContinued
		}
	}
	// A scheduled occurrence between LastCompleted and day was missed,
	// or day precedes LastCompleted.
	return 1, day, EventReset
}

// replayStreak rebuilds streak state from History after a removal. It
// takes the most recent remaining completed date as the new tail and
// walks backward through consecutive scheduled days that are present in
// History.
func replayStreak(led entity.Ledger, rec entity.Recurrence, createdAt date.Local) (streak int, last date.Local) {
	for key, count := range led.History {
		if count <= 0 {
			continue
		}
		d, err := date.Parse(key)
		if err != nil {
			continue
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	if last.IsZero() {
		return 0, date.Local{}
	}
	streak = 1
	cur := last
	for {
		prev, ok := PrevScheduled(rec, createdAt, cur)
		if !ok || led.History[prev.String()] <= 0 {
			break
		}
		streak++
		cur = prev
	}
	return streak, last
}
