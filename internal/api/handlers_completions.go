package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/engine"
	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
	"github.com/strideapp/stride/pkg/httputil"
)

type CompleteHabitRequest struct {
	// Date defaults to today when omitted
	Date date.Local `json:"date"`
	// IncrementBy defaults to 1 when omitted
	IncrementBy int `json:"increment_by"`
}

type LedgerResponse struct {
	HabitID string         `json:"habit_id"`
	From    date.Local     `json:"from"`
	To      date.Local     `json:"to"`
	History map[string]int `json:"history"`
}

type StatsResponse struct {
	UserID  string               `json:"uid"`
	From    date.Local           `json:"from"`
	To      date.Local           `json:"to"`
	Group   string               `json:"group"`
	Points  []entity.StatsPoint  `json:"points,omitempty"`
	Buckets []entity.StatsBucket `json:"buckets,omitempty"`
}

func (s *Server) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("complete habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("complete habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req CompleteHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Error("complete habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.IncrementBy == 0 {
		req.IncrementBy = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.completionsService.CompleteHabit(ctx, id, uid, req.Date, req.IncrementBy)
	if err != nil {
		writeCompletionError(w, logger, "complete habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("habit completed", slog.String("event", string(result.Event)), slog.Int("streak", result.Streak))
}

func (s *Server) UncompleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("uncomplete habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("uncomplete habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var day date.Local
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = date.Parse(raw)
		if err != nil {
			logger.Error("uncomplete habit error: invalid date param")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date param", nil)
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.completionsService.UncompleteHabit(ctx, id, uid, day)
	if err != nil {
		writeCompletionError(w, logger, "uncomplete habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("habit uncompleted", slog.Int("streak", result.Streak))
}

func (s *Server) GetLedger(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get ledger error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error("get ledger error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	from, to, err := parseRangeParams(r)
	if err != nil {
		logger.Error("get ledger error: invalid range params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid from/to params", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	history, err := s.completionsService.GetLedgerHistory(ctx, id, uid, from, to)
	if err != nil {
		writeCompletionError(w, logger, "get ledger", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, LedgerResponse{
		HabitID: id.String(),
		From:    from,
		To:      to,
		History: history,
	})
	logger.Info("ledger provided")
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	from, to, err := parseRangeParams(r)
	if err != nil {
		logger.Error("get stats error: invalid range params")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid from/to params", nil)
		return
	}
	group := r.URL.Query().Get("group")
	if group == "" {
		group = "day"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	points, err := s.statsService.GetTimeSeries(ctx, uid, from, to)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidDate) {
			logger.Error("get stats error: invalid range")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date range", nil)
			return
		}
		logger.Error("get stats error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while building stats", nil)
		return
	}
	resp := StatsResponse{
		UserID: uid.String(),
		From:   from,
		To:     to,
		Group:  group,
	}
	switch group {
	case "day":
		resp.Points = points
	case "week":
		resp.Buckets = engine.GroupByISOWeek(points)
	case "month":
		resp.Buckets = engine.GroupByMonth(points)
	default:
		logger.Error("get stats error: unknown group param")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "group must be one of day, week, month", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, resp)
	logger.Info("stats provided", slog.String("group", group))
}

func parseRangeParams(r *http.Request) (from, to date.Local, err error) {
	from, err = date.Parse(r.URL.Query().Get("from"))
	if err != nil {
		return date.Local{}, date.Local{}, err
	}
	to, err = date.Parse(r.URL.Query().Get("to"))
	if err != nil {
		return date.Local{}, date.Local{}, err
	}
	return from, to, nil
}

func writeCompletionError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrInvalidDate):
		logger.Error(op + " error: invalid date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date", nil)
	case errors.Is(err, errorvalues.ErrInvalidIncrement):
		logger.Error(op + " error: invalid increment")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "increment must be positive", nil)
	case errors.Is(err, errorvalues.ErrNotScheduled):
		logger.Error(op + " error: unscheduled day")
		httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "habit is not scheduled on this date", nil)
	case errors.Is(err, errorvalues.ErrNotStreakTail):
		logger.Error(op + " error: interior removal")
		httputil.WriteErrorResponse(w, http.StatusUnprocessableEntity, "only the most recent completion can be removed", nil)
	case errors.Is(err, errorvalues.ErrCompletionNotFound):
		logger.Error(op + " error: unexist completion")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "no completion recorded for this date", nil)
	case errors.Is(err, errorvalues.ErrHabitArchived):
		logger.Error(op + " error: archived habit")
		httputil.WriteErrorResponse(w, http.StatusConflict, "habit is archived", nil)
	default:
		writeHabitLookupError(w, logger, op, err)
	}
}
