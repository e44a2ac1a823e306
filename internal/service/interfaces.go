package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/engine"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Title       string `validate:"required,min=1,max=200"`
	Description string `validate:"max=2000"`
	Recurrence  entity.Recurrence
	// StartDate is the first active day; today when zero
	StartDate date.Local
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

// CompletionResult carries the ledger state after a completion mutation
// plus the streak event, which callers may use as a milestone trigger.
type CompletionResult struct {
	Event         engine.StreakEvent `json:"event"`
	Streak        int                `json:"streak"`
	LastCompleted date.Local         `json:"last_completed"`
	// DayCount is the completion count for the mutated date after the
	// operation
	DayCount int `json:"day_count"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	// Validates the request and recurrence rule, creates the habit
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error)
	// Replaces the recurrence rule wholesale, no partial updates
	UpdateRecurrence(ctx context.Context, habitID, userID uuid.UUID, rec entity.Recurrence) error
	// Soft-deletes the habit as of today. History is retained for audit
	ArchiveHabit(ctx context.Context, habitID, userID uuid.UUID) error
}

type CompletionsServiceI interface {
	// Records a completion for day (today when zero) and persists the
	// engine's resulting ledger state
	CompleteHabit(ctx context.Context, habitID, userID uuid.UUID, day date.Local, incrementBy int) (*CompletionResult, error)
	// Removes the completion for day (today when zero), replaying the streak
	UncompleteHabit(ctx context.Context, habitID, userID uuid.UUID, day date.Local) (*CompletionResult, error)
	// Provides the date->count completion history for a period
	GetLedgerHistory(ctx context.Context, habitID, userID uuid.UUID, from, to date.Local) (map[string]int, error)
}

type StatsServiceI interface {
	// Builds the per-day completion-rate series across the user's habits
	GetTimeSeries(ctx context.Context, uid uuid.UUID, from, to date.Local) ([]entity.StatsPoint, error)
}

// Clock supplies "today" as a local date. The engine never computes it
// from a raw timestamp on its own.
type Clock interface {
	Today() date.Local
}
