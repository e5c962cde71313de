package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type gameweekServiceMock struct{ mock.Mock }

func (m *gameweekServiceMock) Status(ctx context.Context, gw int) (usecase.Result[usecase.GameweekStatus], error) {
	args := m.Called(ctx, gw)
	return args.Get(0).(usecase.Result[usecase.GameweekStatus]), args.Error(1)
}

type scoringServiceMock struct{ mock.Mock }

func (m *scoringServiceMock) LeagueScores(ctx context.Context, leagueID, gw int) (usecase.LeagueScores, error) {
	args := m.Called(ctx, leagueID, gw)
	return args.Get(0).(usecase.LeagueScores), args.Error(1)
}

func (m *scoringServiceMock) EntryScore(ctx context.Context, leagueID, entryID, gw int) (usecase.ManagerScore, error) {
	args := m.Called(ctx, leagueID, entryID, gw)
	return args.Get(0).(usecase.ManagerScore), args.Error(1)
}

func (m *scoringServiceMock) CalculatePoints(stat playerstats.StatLine, position player.Position) (scoring.Points, error) {
	args := m.Called(stat, position)
	return args.Get(0).(scoring.Points), args.Error(1)
}

type luckServiceMock struct{ mock.Mock }

func (m *luckServiceMock) SeasonLuck(ctx context.Context, leagueID int, presetName string, through int) (usecase.LeagueLuck, error) {
	args := m.Called(ctx, leagueID, presetName, through)
	return args.Get(0).(usecase.LeagueLuck), args.Error(1)
}

type chipServiceMock struct{ mock.Mock }

func (m *chipServiceMock) Availability(ctx context.Context, entryID, gw int) (usecase.Result[usecase.EntryChips], error) {
	args := m.Called(ctx, entryID, gw)
	return args.Get(0).(usecase.Result[usecase.EntryChips]), args.Error(1)
}

type routerFixture struct {
	gameweeks *gameweekServiceMock
	scoring   *scoringServiceMock
	luck      *luckServiceMock
	chips     *chipServiceMock
	router    http.Handler
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()

	f := routerFixture{
		gameweeks: &gameweekServiceMock{},
		scoring:   &scoringServiceMock{},
		luck:      &luckServiceMock{},
		chips:     &chipServiceMock{},
	}
	handler := NewHandler(f.gameweeks, f.scoring, f.luck, f.chips, logging.NewNop())
	f.router = NewRouter(handler, logging.NewNop(), []string{"*"})

	t.Cleanup(func() {
		f.gameweeks.AssertExpectations(t)
		f.scoring.AssertExpectations(t)
		f.luck.AssertExpectations(t)
		f.chips.AssertExpectations(t)
	})
	return f
}

func serve(t *testing.T, router http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func errorStatusOf(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	status, _ := errObj["status"].(string)
	return status
}

func TestHandler_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	code, body := serve(t, f.router, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || dataOf(t, body)["status"] != "ok" {
		t.Fatalf("unexpected healthz response: %d %v", code, body)
	}
}

func TestHandler_GetGameweekStatus(t *testing.T) {
	f := newRouterFixture(t)
	f.gameweeks.On("Status", mock.Anything, 5).Return(usecase.Degraded(usecase.GameweekStatus{
		Gameweek:      5,
		Status:        gameweek.StatusLive,
		TrustedStatus: gameweek.StatusLive,
		Source:        usecase.SourceNone,
	}, "feed down"), nil).Once()

	code, body := serve(t, f.router, http.MethodGet, "/v1/gameweeks/5/status", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data := dataOf(t, body)
	if data["status"] != "live" || data["outcome"] != "degraded" || data["reason"] != "feed down" {
		t.Fatalf("unexpected status payload: %v", data)
	}
}

func TestHandler_RejectsInvalidPathValues(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "gameweek above season", target: "/v1/gameweeks/39/status"},
		{name: "gameweek zero", target: "/v1/gameweeks/0/status"},
		{name: "non numeric gameweek", target: "/v1/gameweeks/abc/status"},
		{name: "non positive league", target: "/v1/leagues/0/gameweeks/3/scores"},
		{name: "bad through", target: "/v1/leagues/99/luck?through=x"},
		{name: "through out of range", target: "/v1/leagues/99/luck?through=40"},
		{name: "chips without gameweek", target: "/v1/entries/7/chips"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t)
			code, body := serve(t, f.router, http.MethodGet, tc.target, "")
			if code != http.StatusBadRequest || errorStatusOf(body) != "INVALID_ARGUMENT" {
				t.Fatalf("expected 400 INVALID_ARGUMENT, got %d %v", code, body)
			}
		})
	}
}

func TestHandler_ListLeagueScores(t *testing.T) {
	f := newRouterFixture(t)
	f.scoring.On("LeagueScores", mock.Anything, 99, 5).Return(usecase.LeagueScores{
		LeagueID: 99,
		Gameweek: 5,
		Status:   gameweek.StatusLive,
		Outcome:  usecase.OutcomeOK,
		Managers: []usecase.ManagerScore{{EntryID: 7, GrossTotal: 24, NetTotal: 20, TransferCost: 4}},
	}, nil).Once()

	code, body := serve(t, f.router, http.MethodGet, "/v1/leagues/99/gameweeks/5/scores", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	managers, _ := dataOf(t, body)["managers"].([]any)
	if len(managers) != 1 {
		t.Fatalf("unexpected managers: %v", body)
	}
	if row, _ := managers[0].(map[string]any); row["net_total"] != float64(20) {
		t.Fatalf("unexpected manager row: %v", row)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "not found", err: fmt.Errorf("%w: entry 7 not in league", usecase.ErrNotFound), wantCode: http.StatusNotFound, wantStatus: "NOT_FOUND"},
		{name: "dependency", err: fmt.Errorf("%w: roster", usecase.ErrDependencyUnavailable), wantCode: http.StatusServiceUnavailable, wantStatus: "UNAVAILABLE"},
		{name: "unexpected", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantStatus: "INTERNAL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRouterFixture(t)
			f.scoring.On("EntryScore", mock.Anything, 99, 7, 5).Return(usecase.ManagerScore{}, tc.err).Once()

			code, body := serve(t, f.router, http.MethodGet, "/v1/leagues/99/entries/7/gameweeks/5/score", "")
			if code != tc.wantCode || errorStatusOf(body) != tc.wantStatus {
				t.Fatalf("expected %d %s, got %d %v", tc.wantCode, tc.wantStatus, code, body)
			}
		})
	}
}

func TestHandler_CalculatePoints(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		f := newRouterFixture(t)
		f.scoring.On("CalculatePoints", mock.MatchedBy(func(stat playerstats.StatLine) bool {
			return stat.Minutes == 90 && stat.GoalsScored == 1
		}), player.PositionDefender).Return(scoring.Points{
			Total:     8,
			Breakdown: map[string]int{"minutes": 2, "goals": 6},
		}, nil).Once()

		code, body := serve(t, f.router, http.MethodPost, "/v1/points/calculate", `{"position": "DEF", "minutes": 90, "goals_scored": 1}`)
		if code != http.StatusOK || dataOf(t, body)["total"] != float64(8) {
			t.Fatalf("unexpected response: %d %v", code, body)
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		f := newRouterFixture(t)
		code, _ := serve(t, f.router, http.MethodPost, "/v1/points/calculate", `{"position": "MGR", "minutes": 90}`)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newRouterFixture(t)
		code, _ := serve(t, f.router, http.MethodPost, "/v1/points/calculate", `{"position":`)
		if code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", code)
		}
	})
}

func TestHandler_GetSeasonLuck(t *testing.T) {
	f := newRouterFixture(t)
	f.luck.On("SeasonLuck", mock.Anything, 99, "debug-v1", 10).
		Return(usecase.LeagueLuck{LeagueID: 99, Through: 10, Outcome: usecase.OutcomeOK}, nil).
		Once()

	code, body := serve(t, f.router, http.MethodGet, "/v1/leagues/99/luck?preset=debug-v1&through=10", "")
	if code != http.StatusOK || dataOf(t, body)["through"] != float64(10) {
		t.Fatalf("unexpected response: %d %v", code, body)
	}
}

func TestHandler_GetChipAvailability(t *testing.T) {
	f := newRouterFixture(t)
	f.chips.On("Availability", mock.Anything, 7, 5).Return(usecase.Ok(usecase.EntryChips{
		EntryID:  7,
		Gameweek: 5,
		Source:   usecase.SourceLiveFeed,
		Chips:    []fantasy.ChipStatus{{Chip: fantasy.ChipWildcard, Available: false, UsedIn: []int{3}}},
	}), nil).Once()

	code, body := serve(t, f.router, http.MethodGet, "/v1/entries/7/chips?gameweek=5", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	data := dataOf(t, body)
	if data["outcome"] != "ok" || data["source"] != "live_feed" {
		t.Fatalf("unexpected chips payload: %v", data)
	}
}
