package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/cleanup"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	if habit == nil {
		return uuid.UUID{}, errors.New("habit is nil")
	}
	var id uuid.UUID
	row := hr.conn.QueryRow(
		ctx,
		`INSERT INTO habits (user_id, title, description, recurrence_kind, recurrence_days, created_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		habit.UserID,
		habit.Title,
		habit.Description,
		string(habit.Recurrence.Kind),
		habit.Recurrence.Days,
		habit.CreatedAt.Time(),
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrUserHasHabit
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(
		ctx,
		`SELECT id, user_id, title, description, recurrence_kind, recurrence_days, created_date, archived_at, streak, last_completed
		FROM habits WHERE id = $1;`,
		id,
	)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("searching habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(
		ctx,
		`SELECT id, user_id, title, description, recurrence_kind, recurrence_days, created_date, archived_at, streak, last_completed
		FROM habits WHERE user_id = $1 ORDER BY created_date, title LIMIT $2 OFFSET $3;`,
		uid,
		limit,
		offset,
	)
	if err != nil {
		return nil, errors.New("getting user habits error: " + err.Error())
	}
	defer rows.Close()
	result := make([]*entity.Habit, 0, limit)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, errors.New("habit row parsing error: " + err.Error())
		}
		result = append(result, habit)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected habit rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (hr *HabitsRepository) UpdateRecurrence(ctx context.Context, id uuid.UUID, rec entity.Recurrence) error {
	ct, err := hr.conn.Exec(
		ctx,
		`UPDATE habits SET recurrence_kind = $1, recurrence_days = $2 WHERE id = $3;`,
		string(rec.Kind),
		rec.Days,
		id,
	)
	if err != nil {
		return errors.New("updating habit recurrence error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateDerived(ctx context.Context, id uuid.UUID, streak int, lastCompleted date.Local) error {
	ct, err := hr.conn.Exec(
		ctx,
		`UPDATE habits SET streak = $1, last_completed = $2 WHERE id = $3;`,
		streak,
		nullableDate(lastCompleted),
		id,
	)
	if err != nil {
		return errors.New("updating habit derived state error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Archive(ctx context.Context, id uuid.UUID, day date.Local) error {
	ct, err := hr.conn.Exec(
		ctx,
		`UPDATE habits SET archived_at = $1 WHERE id = $2 AND archived_at IS NULL;`,
		day.Time(),
		id,
	)
	if err != nil {
		return errors.New("archiving habit error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		habit         entity.Habit
		kind          string
		days          []int
		createdDate   time.Time
		archivedAt    *time.Time
		lastCompleted *time.Time
	)
	err := row.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Title,
		&habit.Description,
		&kind,
		&days,
		&createdDate,
		&archivedAt,
		&habit.Ledger.Streak,
		&lastCompleted,
	)
	if err != nil {
		return nil, err
	}
	habit.Recurrence = entity.Recurrence{Kind: entity.RecurrenceKind(kind), Days: days}
	habit.CreatedAt = date.FromTime(createdDate)
	if archivedAt != nil {
		habit.ArchivedAt = date.FromTime(*archivedAt)
	}
	if lastCompleted != nil {
		habit.Ledger.LastCompleted = date.FromTime(*lastCompleted)
	}
	return &habit, nil
}

func nullableDate(d date.Local) any {
	if d.IsZero() {
		return nil
	}
	return d.Time()
}
