package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/engine"
	"github.com/strideapp/stride/internal/repository"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
)

// statsHabitsLimit caps how many habits one report covers. Personal habit
// sets are tiny; the cap only guards against a runaway query.
const statsHabitsLimit = 500

// StatsService builds read-only completion-rate reports. It never mutates
// ledger state, so concurrent report calls need no coordination.
type StatsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
}

func NewStatsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI) *StatsService {
	if habitsRepo == nil || completionsRepo == nil {
		log.Fatal("on stats service provided nil repos")
	}
	return &StatsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
	}
}

func (serv *StatsService) GetTimeSeries(ctx context.Context, uid uuid.UUID, from, to date.Local) ([]entity.StatsPoint, error) {
	habits, err := serv.habitsRepo.GetByUserID(ctx, uid, statsHabitsLimit, 0)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	// Only the requested window matters for numerators; archived habits
	// stay in the set since the aggregator excludes them per day
	for _, habit := range habits {
		history, err := serv.completionsRepo.GetHistory(ctx, habit.ID, from, to)
		if err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
		habit.Ledger.History = history
	}
	return engine.BuildTimeSeries(habits, from, to)
}
