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
)

type CompletionsRepository struct {
	conn PgConnection
}

func NewCompletionsRepo(cfg DBConfig) *CompletionsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for completionsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CompletionsRepository{
		conn: pool,
	}
}

func NewCompletionsRepoWithConn(conn PgConnection) *CompletionsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	return &CompletionsRepository{
		conn: conn,
	}
}

func (cr *CompletionsRepository) IncrementCount(ctx context.Context, habitID uuid.UUID, day date.Local, by int) error {
	_, err := cr.conn.Exec(
		ctx,
		`INSERT INTO habit_completions (habit_id, completion_date, completion_count) VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, completion_date)
		DO UPDATE SET completion_count = habit_completions.completion_count + EXCLUDED.completion_count;`,
		habitID,
		day.Time(),
		by,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("recording completion error: " + err.Error())
	}
	return nil
}

func (cr *CompletionsRepository) Delete(ctx context.Context, habitID uuid.UUID, day date.Local) error {
	ct, err := cr.conn.Exec(
		ctx,
		`DELETE FROM habit_completions WHERE habit_id = $1 AND completion_date = $2;`,
		habitID,
		day.Time(),
	)
	if err != nil {
		return errors.New("deleting completion error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCompletionNotFound
	}
	return nil
}

func (cr *CompletionsRepository) GetHistory(ctx context.Context, habitID uuid.UUID, from, to date.Local) (map[string]int, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT completion_date, completion_count FROM habit_completions
		WHERE habit_id = $1 AND completion_date >= $2 AND completion_date <= $3;`,
		habitID,
		from.Time(),
		to.Time(),
	)
	if err != nil {
		return nil, errors.New("getting completions for period error: " + err.Error())
	}
	return scanHistory(rows)
}

func (cr *CompletionsRepository) GetHistoryAll(ctx context.Context, habitID uuid.UUID) (map[string]int, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT completion_date, completion_count FROM habit_completions WHERE habit_id = $1;`,
		habitID,
	)
	if err != nil {
		return nil, errors.New("getting completion history error: " + err.Error())
	}
	return scanHistory(rows)
}

func scanHistory(rows pgx.Rows) (map[string]int, error) {
	defer rows.Close()
	history := make(map[string]int, 8)
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, errors.New("completion row parsing error: " + err.Error())
		}
		history[date.FromTime(day).String()] = count
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected completion rows error: " + rows.Err().Error())
	}
	return history, nil
}
