package player

import "context"

// Repository describes player lookups needed by use cases.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
}
