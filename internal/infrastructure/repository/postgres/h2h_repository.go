package postgres

import (
	"context"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/h2h"
	qb "github.com/gregleo12/fpl-sub001/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type H2HRepository struct {
	db *sqlx.DB
}

var historySelectColumns = []string{
	"entry_id",
	"event",
	"points",
	"transfers",
	"transfer_cost",
	"points_on_bench",
	"rank",
}

func NewH2HRepository(db *sqlx.DB) *H2HRepository {
	return &H2HRepository{db: db}
}

func (r *H2HRepository) ListEntries(ctx context.Context, leagueID int) ([]h2h.Entry, error) {
	query, args, err := qb.Select("league_id", "entry_id", "entry_name", "player_name").
		From("h2h_entries").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("entry_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select h2h entries query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select h2h entries league=%d: %w", leagueID, err)
	}

	out := make([]h2h.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *H2HRepository) ListMatches(ctx context.Context, leagueID int) ([]h2h.Match, error) {
	query, args, err := qb.Select(
		"league_id",
		"event",
		"entry_1_id",
		"entry_1_points",
		"entry_2_id",
		"entry_2_points",
		"winner",
	).
		From("h2h_matches").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("event", "entry_1_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select h2h matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select h2h matches league=%d: %w", leagueID, err)
	}

	out := make([]h2h.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *H2HRepository) GetHistory(ctx context.Context, entryID, event int) (h2h.ManagerGWHistory, bool, error) {
	query, args, err := qb.Select(historySelectColumns...).
		From("manager_gameweek_history").
		Where(qb.Eq("entry_id", entryID), qb.Eq("event", event)).
		Limit(1).
		ToSQL()
	if err != nil {
		return h2h.ManagerGWHistory{}, false, fmt.Errorf("build get manager history query: %w", err)
	}

	var row historyTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return h2h.ManagerGWHistory{}, false, nil
		}
		return h2h.ManagerGWHistory{}, false, fmt.Errorf("get manager history entry=%d event=%d: %w", entryID, event, err)
	}
	return row.toDomain(), true, nil
}
