package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gregleo12/fpl-sub001/internal/domain/player"
	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	"github.com/gregleo12/fpl-sub001/internal/domain/scoring"
	"github.com/gregleo12/fpl-sub001/internal/platform/logging"
	"github.com/gregleo12/fpl-sub001/internal/usecase"
)

type GameweekService interface {
	Status(ctx context.Context, gw int) (usecase.Result[usecase.GameweekStatus], error)
}

type ScoringService interface {
	LeagueScores(ctx context.Context, leagueID, gw int) (usecase.LeagueScores, error)
	EntryScore(ctx context.Context, leagueID, entryID, gw int) (usecase.ManagerScore, error)
	CalculatePoints(stat playerstats.StatLine, position player.Position) (scoring.Points, error)
}

type LuckService interface {
	SeasonLuck(ctx context.Context, leagueID int, presetName string, through int) (usecase.LeagueLuck, error)
}

type ChipService interface {
	Availability(ctx context.Context, entryID, gw int) (usecase.Result[usecase.EntryChips], error)
}

type Handler struct {
	gameweekService GameweekService
	scoringService  ScoringService
	luckService     LuckService
	chipService     ChipService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	gameweekService GameweekService,
	scoringService ScoringService,
	luckService LuckService,
	chipService ChipService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameweekService: gameweekService,
		scoringService:  scoringService,
		luckService:     luckService,
		chipService:     chipService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetGameweekStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetGameweekStatus")
	defer span.End()

	req := gameweekRequest{}
	if err := bindPathInts(r, map[string]*int{"gameweek": &req.Gameweek}); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.gameweekService.Status(ctx, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek status failed", "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekStatusDTO{
		GameweekStatus: result.Value,
		Outcome:        result.Outcome,
		Reason:         result.Reason,
	})
}

func (h *Handler) ListLeagueScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListLeagueScores")
	defer span.End()

	req := leagueGameweekRequest{}
	if err := bindPathInts(r, map[string]*int{"leagueID": &req.LeagueID, "gameweek": &req.Gameweek}); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scores, err := h.scoringService.LeagueScores(ctx, req.LeagueID, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list league scores failed", "league_id", req.LeagueID, "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scores)
}

func (h *Handler) GetEntryScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetEntryScore")
	defer span.End()

	req := entryGameweekRequest{}
	err := bindPathInts(r, map[string]*int{
		"leagueID": &req.LeagueID,
		"entryID":  &req.EntryID,
		"gameweek": &req.Gameweek,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	score, err := h.scoringService.EntryScore(ctx, req.LeagueID, req.EntryID, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get entry score failed",
			"league_id", req.LeagueID,
			"entry_id", req.EntryID,
			"gameweek", req.Gameweek,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, score)
}

func (h *Handler) CalculatePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CalculatePoints")
	defer span.End()

	var req calculatePointsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	points, err := h.scoringService.CalculatePoints(req.toStatLine(), player.Position(req.Position))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, points)
}

func (h *Handler) GetSeasonLuck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetSeasonLuck")
	defer span.End()

	req := seasonLuckRequest{Preset: strings.TrimSpace(r.URL.Query().Get("preset"))}
	if err := bindPathInts(r, map[string]*int{"leagueID": &req.LeagueID}); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := bindQueryInt(r, "through", &req.Through); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.luckService.SeasonLuck(ctx, req.LeagueID, req.Preset, req.Through)
	if err != nil {
		h.logger.WarnContext(ctx, "get season luck failed", "league_id", req.LeagueID, "preset", req.Preset, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetChipAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetChipAvailability")
	defer span.End()

	req := chipAvailabilityRequest{}
	if err := bindPathInts(r, map[string]*int{"entryID": &req.EntryID}); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := bindQueryInt(r, "gameweek", &req.Gameweek); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.chipService.Availability(ctx, req.EntryID, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "get chip availability failed", "entry_id", req.EntryID, "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryChipsDTO{
		EntryChips: result.Value,
		Outcome:    result.Outcome,
		Reason:     result.Reason,
	})
}

func bindPathInts(r *http.Request, targets map[string]*int) error {
	for name, target := range targets {
		raw := strings.TrimSpace(r.PathValue(name))
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
		}
		*target = value
	}
	return nil
}

// bindQueryInt leaves target untouched when the parameter is absent.
func bindQueryInt(r *http.Request, name string, target *int) error {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	*target = value
	return nil
}
