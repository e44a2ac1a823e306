package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit. Only UserID, Title, Description, Recurrence and
	// CreatedAt are read from habit
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id. Ledger.History is left for the
	// completions repository to fill
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits owned by user with uid. Requires pagination params provided
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Replaces the recurrence rule wholesale
	UpdateRecurrence(ctx context.Context, id uuid.UUID, rec entity.Recurrence) error
	// Persists derived streak state computed by the engine
	UpdateDerived(ctx context.Context, id uuid.UUID, streak int, lastCompleted date.Local) error
	// Soft-deletes the habit as of day
	Archive(ctx context.Context, id uuid.UUID, day date.Local) error
}

type CompletionsRepositoryI interface {
	// Upserts the completion count for a day, adding by to any existing count
	IncrementCount(ctx context.Context, habitID uuid.UUID, day date.Local, by int) error
	// Deletes the entry for a day (uncomplete)
	Delete(ctx context.Context, habitID uuid.UUID, day date.Local) error
	// Provides the date->count history for a period
	GetHistory(ctx context.Context, habitID uuid.UUID, from, to date.Local) (map[string]int, error)
	// Provides the full date->count history of a habit
	GetHistoryAll(ctx context.Context, habitID uuid.UUID) (map[string]int, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
