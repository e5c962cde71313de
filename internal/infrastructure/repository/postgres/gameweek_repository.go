package postgres

import (
	"context"
	"fmt"

	"github.com/gregleo12/fpl-sub001/internal/domain/gameweek"
	qb "github.com/gregleo12/fpl-sub001/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) ListEvents(ctx context.Context) ([]gameweek.Event, error) {
	query, args, err := qb.Select("id", "finished", "is_current", "data_checked", "deadline_time").
		From("events").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]gameweek.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
