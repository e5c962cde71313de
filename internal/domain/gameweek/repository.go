package gameweek

import "context"

// Repository reads persisted gameweek metadata.
type Repository interface {
	ListEvents(ctx context.Context) ([]Event, error)
}
