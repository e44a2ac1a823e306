package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/internal/repository"
	"github.com/strideapp/stride/pkg/entity"
)

type HabitsService struct {
	repo  repository.HabitsRepositoryI
	clock Clock
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, clock Clock) *HabitsService {
	if habitsRepo == nil || clock == nil {
		log.Fatal("on habits service provided nil dependencies")
	}
	return &HabitsService{
		repo:  habitsRepo,
		clock: clock,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	// Malformed recurrence rules are rejected here, never at scheduling time
	if err := req.Recurrence.Validate(); err != nil {
		return nil, err
	}
	createdAt := req.StartDate
	if createdAt.IsZero() {
		createdAt = hs.clock.Today()
	}
	h := entity.Habit{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Recurrence:  req.Recurrence,
		CreatedAt:   createdAt,
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, errorvalues.ErrUserHasHabit
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) UpdateRecurrence(ctx context.Context, habitID, userID uuid.UUID, rec entity.Recurrence) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	habit, err := hs.GetHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return errorvalues.ErrHabitArchived
	}
	err = hs.repo.UpdateRecurrence(ctx, habitID, rec)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) ArchiveHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	habit, err := hs.GetHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if habit.Archived() {
		return errorvalues.ErrHabitArchived
	}
	err = hs.repo.Archive(ctx, habitID, hs.clock.Today())
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}
