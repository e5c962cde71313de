package fpl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/platform/resilience"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, retries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("content-type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestClient_FetchBootstrap(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, `{
			"events": [
				{"id": 2, "finished": false, "is_current": true, "data_checked": false, "deadline_time": "2025-08-22T17:30:00Z"},
				{"id": 1, "finished": true, "is_current": false, "data_checked": true, "deadline_time": "2025-08-15T17:30:00Z"}
			],
			"elements": [
				{"id": 10, "team": 1, "web_name": "Raya", "element_type": 1},
				{"id": 11, "team": 1, "web_name": "Saka", "element_type": 3},
				{"id": 12, "team": 2, "web_name": "Manager", "element_type": 5}
			]
		}`)
	})
	client := newTestClient(t, mux, 0)

	got, err := client.FetchBootstrap(context.Background())
	if err != nil {
		t.Fatalf("fetch bootstrap: %v", err)
	}
	if len(got.Events) != 2 || got.Events[0].ID != 1 || !got.Events[0].DataChecked {
		t.Fatalf("unexpected events: %+v", got.Events)
	}
	want := time.Date(2025, 8, 22, 17, 30, 0, 0, time.UTC)
	if !got.Events[1].DeadlineTime.Equal(want) {
		t.Fatalf("unexpected deadline: %s", got.Events[1].DeadlineTime)
	}
	if len(got.Players) != 2 || got.Players[1].Position != player.PositionMidfielder {
		t.Fatalf("unexpected players: %+v", got.Players)
	}
}

func TestClient_FetchPicks(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/entry/7/event/5/picks/", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, `{
			"active_chip": "3xc",
			"entry_history": {"event": 5, "points": 71, "rank": 100, "event_transfers": 2, "event_transfers_cost": 4, "points_on_bench": 6},
			"picks": [
				{"element": 10, "position": 1, "multiplier": 1, "is_captain": false, "is_vice_captain": false},
				{"element": 11, "position": 2, "multiplier": 3, "is_captain": true, "is_vice_captain": false}
			]
		}`)
	})
	client := newTestClient(t, mux, 0)

	got, err := client.FetchPicks(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("fetch picks: %v", err)
	}
	if got.ActiveChip != fantasy.ChipTripleCaptain {
		t.Fatalf("unexpected chip: %s", got.ActiveChip)
	}
	if got.History.TransferCost != 4 || got.History.PointsOnBench != 6 {
		t.Fatalf("unexpected history: %+v", got.History)
	}
	if len(got.Picks) != 2 || !got.Picks[1].IsCaptain || got.Picks[1].LineupPosition != 2 {
		t.Fatalf("unexpected picks: %+v", got.Picks)
	}
}

func TestClient_FetchEntryHistory_SkipsUnknownChips(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/entry/7/history/", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, `{
			"current": [{"event": 1, "points": 60, "rank": 1, "event_transfers": 0, "event_transfers_cost": 0, "points_on_bench": 3}],
			"chips": [{"name": "wildcard", "event": 3}, {"name": "manager", "event": 9}]
		}`)
	})
	client := newTestClient(t, mux, 0)

	got, err := client.FetchEntryHistory(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch history: %v", err)
	}
	if len(got.Gameweeks) != 1 || got.Gameweeks[0].Points != 60 {
		t.Fatalf("unexpected gameweeks: %+v", got.Gameweeks)
	}
	if len(got.Chips) != 1 || got.Chips[0].Chip != fantasy.ChipWildcard || got.Chips[0].Gameweek != 3 {
		t.Fatalf("unexpected chips: %+v", got.Chips)
	}
}

func TestClient_FetchH2HMatches_Paginates(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/leagues-h2h-matches/league/99/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeBody(w, `{"has_next": true, "page": 1, "results": [
				{"event": 1, "entry_1_entry": 7, "entry_1_points": 60, "entry_2_entry": 8, "entry_2_points": 50, "winner": 7}
			]}`)
		default:
			writeBody(w, `{"has_next": false, "page": 2, "results": [
				{"event": 2, "entry_1_entry": 7, "entry_1_points": 40, "entry_2_entry": null, "entry_2_points": 40, "winner": null}
			]}`)
		}
	})
	client := newTestClient(t, mux, 0)

	got, err := client.FetchH2HMatches(context.Background(), 99)
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two matches across pages, got %d", len(got))
	}
	if got[0].Winner == nil || *got[0].Winner != 7 {
		t.Fatalf("unexpected winner: %+v", got[0])
	}
	if got[1].Entry2ID != h2h.AverageEntryID || got[1].Winner != nil {
		t.Fatalf("expected average opponent draw, got %+v", got[1])
	}
}

func TestClient_FetchLeagueEntries(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/leagues-h2h/99/standings/", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, `{"standings": {"has_next": false, "page": 1, "results": [
			{"entry": 7, "entry_name": "Gunners", "player_name": "Alex"},
			{"entry": 8, "entry_name": "Reds", "player_name": "Sam"}
		]}}`)
	})
	client := newTestClient(t, mux, 0)

	got, err := client.FetchLeagueEntries(context.Background(), 99)
	if err != nil {
		t.Fatalf("fetch entries: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Gunners" || got[1].LeagueID != 99 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/event/5/live/", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeBody(w, `{"elements": [{"id": 11, "stats": {"minutes": 90, "goals_scored": 1, "total_points": 8}}]}`)
	})
	client := newTestClient(t, mux, 2)

	got, err := client.FetchLiveStats(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch live stats: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
	if len(got) != 1 || got[0].GoalsScored != 1 || got[0].ProviderTotal == nil || *got[0].ProviderTotal != 8 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/entry/7/history/", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	client := newTestClient(t, mux, 3)

	_, err := client.FetchEntryHistory(context.Background(), 7)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("a 404 must not count as upstream unavailable: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, mux, 0)

	for i := 0; i < 2; i++ {
		_, err := client.FetchBootstrap(context.Background())
		if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
			t.Fatalf("attempt %d: expected ErrUpstreamUnavailable, got %v", i, err)
		}
	}

	_, err := client.FetchBootstrap(context.Background())
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected open circuit error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, got %d calls", calls.Load())
	}
}

func TestClient_RejectsInvalidGameweek(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NewServeMux(), 0)
	if _, err := client.FetchLiveStats(context.Background(), 39); err == nil {
		t.Fatalf("expected invalid gameweek error")
	}
}
