package playerstats

import "context"

type Repository interface {
	ListByGameweek(ctx context.Context, gameweek int) ([]StatLine, error)
}
