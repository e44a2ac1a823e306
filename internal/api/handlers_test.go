package api_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/strideapp/stride/internal/api"
	"github.com/strideapp/stride/internal/engine"
	errorvalues "github.com/strideapp/stride/internal/error_values"
	"github.com/strideapp/stride/internal/service"
	"github.com/strideapp/stride/internal/service/mocks"
	"github.com/strideapp/stride/pkg/date"
	"github.com/strideapp/stride/pkg/entity"
	jwtservice "github.com/strideapp/stride/pkg/jwt_service"
)

type UserServiceMock struct {
	success bool
}

func (usmock *UserServiceMock) ChangeState(success bool) {
	usmock.success = success
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) GetByName(ctx context.Context, name string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           uid,
			Name:         username,
			PasswordHash: string(passwordHash),
		}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

var (
	username        = "test_name"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	userID          = uuid.New()
)

// authedRequest builds a request carrying the uid the auth middleware
// would have set, plus a chi route param when id is non-nil.
func authedRequest(method, target string, body io.Reader, id *uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, body)
	r = r.WithContext(context.WithValue(r.Context(), "User-ID", userID))
	if id != nil {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id.String())
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	return r
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})

	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader([]byte("corrupted")))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		require.NoError(t, err)
		token, ok := result["token"].(string)
		if !ok || token == "" {
			t.Error("invalid token")
		}
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader([]byte("corrupted")))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": "` + uid.String() + `"}`))
}

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	jwtService := jwtservice.New("secret")
	serv := api.New(&api.ServicesList{
		UserService: uService,
		JwtService:  jwtService,
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(testHandler))
	token, err := jwtService.GenerateToken(&entity.User{ID: userID, Name: username})
	require.NoError(t, err)

	t.Run("successful auth", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(&entity.User{ID: userID, Name: username}, nil)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("deleted user", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestCreateHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habit := api.CreateHabitRequest{
		Title:       "test_habit",
		Description: "test_habit_description",
		Recurrence:  entity.Recurrence{Kind: entity.RecurrenceDaily},
	}
	body, err := sonic.ConfigDefault.Marshal(habit)
	require.NoError(t, err)
	habitID := uuid.New()
	svcReq := &service.CreateHabitRequest{
		Title:       habit.Title,
		Description: habit.Description,
		Recurrence:  habit.Recurrence,
	}

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Body         io.Reader
	}{
		{
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, svcReq).Return(&entity.Habit{
					ID:          habitID,
					UserID:      userID,
					Title:       habit.Title,
					Description: habit.Description,
					Recurrence:  habit.Recurrence,
					CreatedAt:   date.New(2024, time.January, 1),
				}, nil)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, svcReq).Return(nil, errorvalues.ErrUserHasHabit)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, svcReq).Return(nil, errorvalues.ErrInvalidRecurrence)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, svcReq).Return(nil, errorvalues.ErrUserNotFound)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, svcReq).Return(nil, errors.New("service error"))
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         bytes.NewReader([]byte("corrupted")),
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/api/v1/habits", tc.Body, nil)
		serv.CreateHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestGetHabits(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habits := make([]*entity.Habit, 0, 10)
	for i := 0; i < 10; i++ {
		habits = append(habits, &entity.Habit{
			ID:         uuid.New(),
			UserID:     userID,
			Title:      "test_habit_" + strconv.Itoa(i+1),
			Recurrence: entity.Recurrence{Kind: entity.RecurrenceDaily},
			CreatedAt:  date.New(2024, time.January, 1),
		})
	}
	testCases := []struct {
		ExpectedCode        int
		MockPrepFunc        func()
		Limit               int
		Page                int
		ExpectedHabitsCount int
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  10,
					Offset: 0,
				}).Return(habits, nil)
			},
			Page:                1,
			Limit:               10,
			ExpectedHabitsCount: 10,
		},
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  4,
					Offset: 4,
				}).Return(habits[2:6], nil)
			},
			Page:                2,
			Limit:               4,
			ExpectedHabitsCount: 4,
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  10,
					Offset: 0,
				}).Return(nil, errors.New("service error"))
			},
			Page:                1,
			Limit:               10,
			ExpectedHabitsCount: 0,
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/habits", nil, nil)
		q := r.URL.Query()
		q.Add("limit", strconv.Itoa(tc.Limit))
		q.Add("page", strconv.Itoa(tc.Page))
		r.URL.RawQuery = q.Encode()
		serv.GetHabits(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		if rr.Result().StatusCode == http.StatusOK {
			var resp api.GetHabitsResponse
			err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedHabitsCount, len(resp.Habits))
		}
	}
}

func TestArchiveHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habitID := uuid.New()
	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			ExpectedCode: http.StatusNoContent,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(nil)
			},
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrHabitArchived)
			},
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrHabitNotFound)
			},
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrWrongOwner)
			},
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errors.New("service error"))
			},
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/api/v1/habits/"+habitID.String()+"/archive", nil, &habitID)
		serv.ArchiveHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestUpdateRecurrence(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habitID := uuid.New()
	rec := entity.Recurrence{Kind: entity.RecurrenceWeeklyDays, Days: []int{1, 3, 5}}
	body, err := sonic.ConfigDefault.Marshal(api.UpdateRecurrenceRequest{Recurrence: rec})
	require.NoError(t, err)

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Body         io.Reader
	}{
		{
			ExpectedCode: http.StatusNoContent,
			MockPrepFunc: func() {
				hService.EXPECT().UpdateRecurrence(gomock.Any(), habitID, userID, rec).Return(nil)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				hService.EXPECT().UpdateRecurrence(gomock.Any(), habitID, userID, rec).Return(errorvalues.ErrInvalidRecurrence)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				hService.EXPECT().UpdateRecurrence(gomock.Any(), habitID, userID, rec).Return(errorvalues.ErrHabitArchived)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         bytes.NewReader([]byte("corrupted")),
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPut, "/api/v1/habits/"+habitID.String()+"/recurrence", tc.Body, &habitID)
		serv.UpdateRecurrence(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestCompleteHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCompletionsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CompletionsService: cService,
	})
	habitID := uuid.New()
	day := date.New(2024, time.January, 10)
	body, err := sonic.ConfigDefault.Marshal(api.CompleteHabitRequest{Date: day})
	require.NoError(t, err)

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Body         io.Reader
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, day, 1).Return(&service.CompletionResult{
					Event:         engine.EventContinued,
					Streak:        4,
					LastCompleted: day,
					DayCount:      1,
				}, nil)
			},
			Body: bytes.NewReader(body),
		},
		{
			// empty body completes today with increment 1
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, date.Local{}, 1).Return(&service.CompletionResult{
					Event:         engine.EventStarted,
					Streak:        1,
					LastCompleted: day,
					DayCount:      1,
				}, nil)
			},
			Body: nil,
		},
		{
			ExpectedCode: http.StatusUnprocessableEntity,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, day, 1).Return(nil, errorvalues.ErrNotScheduled)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, day, 1).Return(nil, errorvalues.ErrHabitArchived)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, day, 1).Return(nil, errorvalues.ErrInvalidDate)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, day, 1).Return(nil, errorvalues.ErrWrongOwner)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         bytes.NewReader([]byte("corrupted")),
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/api/v1/habits/"+habitID.String()+"/complete", tc.Body, &habitID)
		serv.CompleteHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestUncompleteHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCompletionsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CompletionsService: cService,
	})
	habitID := uuid.New()
	day := date.New(2024, time.January, 10)

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Query        string
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().UncompleteHabit(gomock.Any(), habitID, userID, day).Return(&service.CompletionResult{
					Streak:        3,
					LastCompleted: date.New(2024, time.January, 9),
				}, nil)
			},
			Query: "?date=2024-01-10",
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				cService.EXPECT().UncompleteHabit(gomock.Any(), habitID, userID, day).Return(nil, errorvalues.ErrCompletionNotFound)
			},
			Query: "?date=2024-01-10",
		},
		{
			ExpectedCode: http.StatusUnprocessableEntity,
			MockPrepFunc: func() {
				cService.EXPECT().UncompleteHabit(gomock.Any(), habitID, userID, day).Return(nil, errorvalues.ErrNotStreakTail)
			},
			Query: "?date=2024-01-10",
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Query:        "?date=10.01.2024",
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/v1/habits/"+habitID.String()+"/complete"+tc.Query, nil, &habitID)
		serv.UncompleteHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestGetLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCompletionsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CompletionsService: cService,
	})
	habitID := uuid.New()
	from := date.New(2024, time.January, 1)
	to := date.New(2024, time.January, 7)

	t.Run("successful", func(t *testing.T) {
		cService.EXPECT().GetLedgerHistory(gomock.Any(), habitID, userID, from, to).Return(map[string]int{
			"2024-01-02": 1,
			"2024-01-05": 2,
		}, nil)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/ledger?from=2024-01-01&to=2024-01-07", nil, &habitID)
		serv.GetLedger(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.LedgerResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, habitID.String(), resp.HabitID)
		assert.Equal(t, 2, resp.History["2024-01-05"])
	})

	t.Run("missing range params", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/ledger", nil, &habitID)
		serv.GetLedger(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})

	t.Run("inverted range", func(t *testing.T) {
		cService.EXPECT().GetLedgerHistory(gomock.Any(), habitID, userID, to, from).Return(nil, errorvalues.ErrInvalidDate)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/habits/"+habitID.String()+"/ledger?from=2024-01-07&to=2024-01-01", nil, &habitID)
		serv.GetLedger(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	sService := mocks.NewMockStatsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		StatsService: sService,
	})
	from := date.New(2024, time.January, 1)
	to := date.New(2024, time.January, 14)
	points := []entity.StatsPoint{
		{Date: date.New(2024, time.January, 1), ScheduledCount: 1, CompletedCount: 1, CompletionRate: 1},
		{Date: date.New(2024, time.January, 2), ScheduledCount: 1, CompletedCount: 0, CompletionRate: 0},
		{Date: date.New(2024, time.January, 8), ScheduledCount: 1, CompletedCount: 1, CompletionRate: 1},
	}

	t.Run("daily points", func(t *testing.T) {
		sService.EXPECT().GetTimeSeries(gomock.Any(), userID, from, to).Return(points, nil)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats?from=2024-01-01&to=2024-01-14", nil, nil)
		serv.GetStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.StatsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "day", resp.Group)
		assert.Len(t, resp.Points, 3)
		assert.Empty(t, resp.Buckets)
	})

	t.Run("weekly buckets", func(t *testing.T) {
		sService.EXPECT().GetTimeSeries(gomock.Any(), userID, from, to).Return(points, nil)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats?from=2024-01-01&to=2024-01-14&group=week", nil, nil)
		serv.GetStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.StatsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
		require.NoError(t, err)
		assert.Empty(t, resp.Points)
		require.Len(t, resp.Buckets, 2)
		assert.Equal(t, "2024-W01", resp.Buckets[0].Key)
		assert.Equal(t, 0.5, resp.Buckets[0].CompletionRate)
	})

	t.Run("unknown group", func(t *testing.T) {
		sService.EXPECT().GetTimeSeries(gomock.Any(), userID, from, to).Return(points, nil)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats?from=2024-01-01&to=2024-01-14&group=year", nil, nil)
		serv.GetStats(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})

	t.Run("missing range params", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats", nil, nil)
		serv.GetStats(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})

	t.Run("service range error", func(t *testing.T) {
		sService.EXPECT().GetTimeSeries(gomock.Any(), userID, to, from).Return(nil, errorvalues.ErrInvalidDate)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats?from=2024-01-14&to=2024-01-01", nil, nil)
		serv.GetStats(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}
