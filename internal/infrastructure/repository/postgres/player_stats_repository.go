package postgres

import (
	"context"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/playerstats"
	qb "github.com/gregleo12/fpl-sub001/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

var statLineSelectColumns = []string{
	"s.player_id",
	"s.gameweek",
	"p.position",
	"s.minutes",
	"s.goals_scored",
	"s.assists",
	"s.clean_sheets",
	"s.goals_conceded",
	"s.own_goals",
	"s.penalties_saved",
	"s.penalties_missed",
	"s.yellow_cards",
	"s.red_cards",
	"s.saves",
	"s.bonus",
	"s.bps",
	"s.defensive_contribution",
	"s.total_points",
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) ListByGameweek(ctx context.Context, gw int) ([]playerstats.StatLine, error) {
	query, args, err := qb.Select(statLineSelectColumns...).
		From("player_gameweek_stats s JOIN players p ON p.id = s.player_id").
		Where(qb.Eq("s.gameweek", gw)).
		OrderBy("s.player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player stats query: %w", err)
	}

	var rows []statLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player stats gameweek=%d: %w", gw, err)
	}

	out := make([]playerstats.StatLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
