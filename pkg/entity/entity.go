package entity

import (
	"github.com/google/uuid"

	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/date"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type RecurrenceKind string

const (
	RecurrenceDaily      RecurrenceKind = "daily"
	RecurrenceWeeklyDays RecurrenceKind = "weekly_days"
)

// Recurrence is a closed tagged variant: Daily has no payload, WeeklyDays
// carries the set of weekdays (0 = Sunday .. 6 = Saturday) the habit is due.
type Recurrence struct {
	Kind RecurrenceKind `json:"kind"`
	Days []int          `json:"days,omitempty"`
}

// Validate rejects malformed rules at construction/edit time so the
// scheduling path never has to.
func (r Recurrence) Validate() error {
	switch r.Kind {
	case RecurrenceDaily:
		if len(r.Days) != 0 {
			return errorvalues.ErrInvalidRecurrence
		}
	case RecurrenceWeeklyDays:
		if len(r.Days) == 0 {
			return errorvalues.ErrInvalidRecurrence
		}
		seen := [7]bool{}
		for _, wd := range r.Days {
			if wd < 0 || wd > 6 || seen[wd] {
				return errorvalues.ErrInvalidRecurrence
			}
			seen[wd] = true
		}
	default:
		return errorvalues.ErrInvalidRecurrence
	}
	return nil
}

// Ledger is the per-habit completion record. It is treated as an immutable
// value: engine operations return a fresh copy, callers persist it.
type Ledger struct {
	// History maps YYYY-MM-DD to a non-negative completion count.
	History map[string]int `json:"history"`
	// Streak counts consecutive scheduled days with at least one
	// completion, ending at LastCompleted.
	Streak        int        `json:"streak"`
	LastCompleted date.Local `json:"last_completed"`
}

// Clone deep-copies the ledger so mutating operations never alias History.
func (l Ledger) Clone() Ledger {
	history := make(map[string]int, len(l.History)+1)
	for k, v := range l.History {
		history[k] = v
	}
	return Ledger{
		History:       history,
		Streak:        l.Streak,
		LastCompleted: l.LastCompleted,
	}
}

// CompletedOn reports whether day has at least one completion.
func (l Ledger) CompletedOn(day date.Local) bool {
	return l.History[day.String()] > 0
}

type Habit struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"uid"`
	Title       string     `json:"title"`
	Description string     `json:"desc"`
	Recurrence  Recurrence `json:"recurrence"`
	// CreatedAt is the date the habit became active. No completion and no
	// scheduling determination exists before it.
	CreatedAt date.Local `json:"created_at"`
	// ArchivedAt is the soft-delete date; zero means live.
	ArchivedAt date.Local `json:"archived_at"`
	Ledger     Ledger     `json:"ledger"`
}

func (h *Habit) Archived() bool {
	return !h.ArchivedAt.IsZero()
}

// ArchivedAsOf reports whether the habit was already archived on day.
func (h *Habit) ArchivedAsOf(day date.Local) bool {
	return !h.ArchivedAt.IsZero() && !day.Before(h.ArchivedAt)
}

// StatsPoint is one day of a completion-rate time series.
type StatsPoint struct {
	Date           date.Local `json:"date"`
	ScheduledCount int        `json:"scheduled_count"`
	CompletedCount int        `json:"completed_count"`
	CompletionRate float64    `json:"completion_rate"`
}

// StatsBucket is an ISO-week or calendar-month aggregate of daily points.
type StatsBucket struct {
	Key            string  `json:"key"`
	CompletionRate float64 `json:"completion_rate"`
	Days           int     `json:"days"`
}
