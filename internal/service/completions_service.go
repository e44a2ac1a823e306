package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/engine"
	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/internal/repository"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// CompletionsService orchestrates the completion ledger: it assembles a
// consistent habit snapshot, hands it to the engine, and persists the
// value the engine returns. Concurrent mutations of the same habit must
// be serialized by the caller; this service never holds ledger state.
type CompletionsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
	clock           Clock
}

func NewCompletionsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI, clock Clock) *CompletionsService {
	if habitsRepo == nil || completionsRepo == nil || clock == nil {
		log.Fatal("on completions service provided nil dependencies")
	}
	return &CompletionsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
		clock:           clock,
	}
}

func (serv *CompletionsService) CompleteHabit(ctx context.Context, habitID, userID uuid.UUID, day date.Local, incrementBy int) (*CompletionResult, error) {
	habit, err := serv.loadOwnedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit.Archived() {
		return nil, errorvalues.ErrHabitArchived
	}
	today := serv.clock.Today()
	if day.IsZero() {
		day = today
	}
	if day.After(today) {
		return nil, errorvalues.ErrInvalidDate
	}
	if err := serv.loadHistory(ctx, habit); err != nil {
		return nil, err
	}
	next, event, err := engine.RecordCompletion(habit.Ledger, habit.Recurrence, habit.CreatedAt, day, incrementBy)
	if err != nil {
		return nil, err
	}
	err = serv.completionsRepo.IncrementCount(ctx, habitID, day, incrementBy)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if event != engine.EventNone {
		err = serv.habitsRepo.UpdateDerived(ctx, habitID, next.Streak, next.LastCompleted)
		if err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
	}
	return &CompletionResult{
		Event:         event,
		Streak:        next.Streak,
		LastCompleted: next.LastCompleted,
		DayCount:      next.History[day.String()],
	}, nil
}

func (serv *CompletionsService) UncompleteHabit(ctx context.Context, habitID, userID uuid.UUID, day date.Local) (*CompletionResult, error) {
	habit, err := serv.loadOwnedHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if habit.Archived() {
		return nil, errorvalues.ErrHabitArchived
	}
	if day.IsZero() {
		day = serv.clock.Today()
	}
	if err := serv.loadHistory(ctx, habit); err != nil {
		return nil, err
	}
	next, err := engine.RemoveCompletion(habit.Ledger, habit.Recurrence, habit.CreatedAt, day)
	if err != nil {
		return nil, err
	}
	err = serv.completionsRepo.Delete(ctx, habitID, day)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCompletionNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	err = serv.habitsRepo.UpdateDerived(ctx, habitID, next.Streak, next.LastCompleted)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &CompletionResult{
		Event:         engine.EventNone,
		Streak:        next.Streak,
		LastCompleted: next.LastCompleted,
		DayCount:      0,
	}, nil
}

func (serv *CompletionsService) GetLedgerHistory(ctx context.Context, habitID, userID uuid.UUID, from, to date.Local) (map[string]int, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, errorvalues.ErrInvalidDate
	}
	if _, err := serv.loadOwnedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	history, err := serv.completionsRepo.GetHistory(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return history, nil
}

func (serv *CompletionsService) loadOwnedHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func (serv *CompletionsService) loadHistory(ctx context.Context, habit *entity.Habit) error {
	history, err := serv.completionsRepo.GetHistoryAll(ctx, habit.ID)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	habit.Ledger.History = history
	return nil
}
