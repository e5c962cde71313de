package postgres

import (
	"context"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/fantasy"
	qb "github.com/gregleo12/fpl-sub001/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) ListPicks(ctx context.Context, entryID, gw int) ([]fantasy.SquadPick, error) {
	query, args, err := qb.Select(
		"entry_id",
		"gameweek",
		"player_id",
		"lineup_position",
		"multiplier",
		"is_captain",
		"is_vice_captain",
	).
		From("squad_picks").
		Where(qb.Eq("entry_id", entryID), qb.Eq("gameweek", gw)).
		OrderBy("lineup_position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select squad picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select squad picks entry=%d gameweek=%d: %w", entryID, gw, err)
	}

	out := make([]fantasy.SquadPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SquadRepository) ListChipUsages(ctx context.Context, entryIDs []int) ([]fantasy.ChipUsage, error) {
	if len(entryIDs) == 0 {
		return []fantasy.ChipUsage{}, nil
	}

	query, args, err := qb.Select("entry_id", "gameweek", "chip").
		From("chip_usages").
		Where(qb.AnyInt("entry_id", entryIDs)).
		OrderBy("entry_id", "gameweek").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select chip usages query: %w", err)
	}

	var rows []chipUsageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select chip usages: %w", err)
	}

	out := make([]fantasy.ChipUsage, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.ChipUsage{
			EntryID:  row.EntryID,
			Gameweek: row.Gameweek,
			Chip:     fantasy.Chip(row.Chip),
		})
	}
	return out, nil
}
