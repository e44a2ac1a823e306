package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strideapp/stride/internal/engine"
	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

func mustRecord(t *testing.T, led entity.Ledger, rec entity.Recurrence, createdAt, day date.Local) (entity.Ledger, engine.StreakEvent) {
	t.Helper()
	next, event, err := engine.RecordCompletion(led, rec, createdAt, day, 1)
	require.NoError(t, err)
	return next, event
}

func TestRecordCompletionStreakMonotonicity(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	led := entity.Ledger{}
	day := createdAt
	for want := 1; want <= 5; want++ {
		var event engine.StreakEvent
		led, event = mustRecord(t, led, daily, createdAt, day)
		assert.Equal(t, want, led.Streak)
		assert.True(t, day.Equal(led.LastCompleted))
		if want == 1 {
			assert.Equal(t, engine.EventStarted, event)
		} else {
			assert.Equal(t, engine.EventContinued, event)
		}
		day = day.Next()
	}
}

func TestRecordCompletionResetOnMissedDay(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	led, event := mustRecord(t, entity.Ledger{}, daily, createdAt, date.New(2024, time.January, 1))
	assert.Equal(t, engine.EventStarted, event)
	// Day 2 is skipped, day 3 completion resets
	led, event = mustRecord(t, led, daily, createdAt, date.New(2024, time.January, 3))
	assert.Equal(t, engine.EventReset, event)
	assert.Equal(t, 1, led.Streak)
	assert.True(t, date.New(2024, time.January, 3).Equal(led.LastCompleted))
}

func TestRecordCompletionWeeklySkipTolerance(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	// Monday completion, then Wednesday: Tuesday is not scheduled, streak holds
	led, _ := mustRecord(t, entity.Ledger{}, monWedFr, createdAt, date.New(2024, time.January, 1))
	led, event := mustRecord(t, led, monWedFr, createdAt, date.New(2024, time.January, 3))
	assert.Equal(t, engine.EventContinued, event)
	assert.Equal(t, 2, led.Streak)

	// Friday missed, next Monday resets
	led, event = mustRecord(t, led, monWedFr, createdAt, date.New(2024, time.January, 8))
	assert.Equal(t, engine.EventReset, event)
	assert.Equal(t, 1, led.Streak)
}

func TestRecordCompletionSameDayIncrementsCountOnly(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	day := date.New(2024, time.January, 2)
	led, _ := mustRecord(t, entity.Ledger{}, daily, createdAt, createdAt)
	led, _ = mustRecord(t, led, daily, createdAt, day)
	require.Equal(t, 2, led.Streak)

	next, event, err := engine.RecordCompletion(led, daily, createdAt, day, 3)
	require.NoError(t, err)
	assert.Equal(t, engine.EventNone, event)
	assert.Equal(t, 4, next.History[day.String()])
	assert.Equal(t, 2, next.Streak)
	assert.True(t, day.Equal(next.LastCompleted))
}

func TestRecordCompletionErrors(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	testCases := []struct {
		Desc        string
		Recurrence  entity.Recurrence
		Day         date.Local
		IncrementBy int
		Error       error
	}{
		{
			Desc:        "date before creation",
			Recurrence:  daily,
			Day:         date.New(2023, time.December, 31),
			IncrementBy: 1,
			Error:       errorvalues.ErrInvalidDate,
		},
		{
			Desc:        "zero date",
			Recurrence:  daily,
			Day:         date.Local{},
			IncrementBy: 1,
			Error:       errorvalues.ErrInvalidDate,
		},
		{
			Desc:        "non-positive increment",
			Recurrence:  daily,
			Day:         createdAt,
			IncrementBy: 0,
			Error:       errorvalues.ErrInvalidIncrement,
		},
		{
			Desc:        "unscheduled day",
			Recurrence:  monWedFr,
			Day:         date.New(2024, time.January, 2), // Tuesday
			IncrementBy: 1,
			Error:       errorvalues.ErrNotScheduled,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			_, event, err := engine.RecordCompletion(entity.Ledger{}, tc.Recurrence, createdAt, tc.Day, tc.IncrementBy)
			assert.ErrorIs(t, err, tc.Error)
			assert.Equal(t, engine.EventNone, event)
		})
	}
}

func TestRecordCompletionDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	led, _ := mustRecord(t, entity.Ledger{}, daily, createdAt, createdAt)
	before := len(led.History)
	bState := led.Streak

	_, _, err := engine.RecordCompletion(led, daily, createdAt, createdAt.Next(), 1)
	require.NoError(t, err)
	assert.Equal(t, before, len(led.History))
	assert.Equal(t, bState, led.Streak)
}

func TestRemoveCompletion(t *testing.T) {
	t.Parallel()
	createdAt := date.New(2024, time.January, 1)
	jan1 := createdAt
	jan2 := date.New(2024, time.January, 2)
	jan3 := date.New(2024, time.January, 3)

	led, _ := mustRecord(t, entity.Ledger{}, daily, createdAt, jan1)
	led, _ = mustRecord(t, led, daily, createdAt, jan2)
	led, _ = mustRecord(t, led, daily, createdAt, jan3)
	require.Equal(t, 3, led.Streak)

	t.Run("missing entry", func(t *testing.T) {
		_, err := engine.RemoveCompletion(led, daily, createdAt, date.New(2024, time.January, 10))
		assert.ErrorIs(t, err, errorvalues.ErrCompletionNotFound)
		// Input ledger untouched
		assert.Equal(t, 3, led.Streak)
		assert.Len(t, led.History, 3)
	})

	t.Run("interior date refused", func(t *testing.T) {
		_, err := engine.RemoveCompletion(led, daily, createdAt, jan2)
		assert.ErrorIs(t, err, errorvalues.ErrNotStreakTail)
	})

	t.Run("tail removal replays streak", func(t *testing.T) {
		next, err := engine.RemoveCompletion(led, daily, createdAt, jan3)
		require.NoError(t, err)
		assert.Equal(t, 2, next.Streak)
		assert.True(t, jan2.Equal(next.LastCompleted))
		assert.NotContains(t, next.History, jan3.String())
	})

	t.Run("removal after a gap leaves single-day streak", func(t *testing.T) {
		gapped, _ := mustRecord(t, entity.Ledger{}, daily, createdAt, jan1)
		gapped, event := mustRecord(t, gapped, daily, createdAt, jan3)
		require.Equal(t, engine.EventReset, event)
		next, err := engine.RemoveCompletion(gapped, daily, createdAt, jan3)
		require.NoError(t, err)
		assert.Equal(t, 1, next.Streak)
		assert.True(t, jan1.Equal(next.LastCompleted))
	})

	t.Run("removing last entry empties the streak", func(t *testing.T) {
		single, _ := mustRecord(t, entity.Ledger{}, daily, createdAt, jan1)
		next, err := engine.RemoveCompletion(single, daily, createdAt, jan1)
		require.NoError(t, err)
		assert.Equal(t, 0, next.Streak)
		assert.True(t, next.LastCompleted.IsZero())
		assert.Empty(t, next.History)
	})

	t.Run("weekly replay walks scheduled days", func(t *testing.T) {
		// Mon, Wed, Fri completed; removing Friday must leave Mon+Wed
		wk, _ := mustRecord(t, entity.Ledger{}, monWedFr, createdAt, date.New(2024, time.January, 1))
		wk, _ = mustRecord(t, wk, monWedFr, createdAt, date.New(2024, time.January, 3))
		wk, _ = mustRecord(t, wk, monWedFr, createdAt, date.New(2024, time.January, 5))
		require.Equal(t, 3, wk.Streak)
		next, err := engine.RemoveCompletion(wk, monWedFr, createdAt, date.New(2024, time.January, 5))
		require.NoError(t, err)
		assert.Equal(t, 2, next.Streak)
		assert.True(t, date.New(2024, time.January, 3).Equal(next.LastCompleted))
	})
}
