package fantasy

import "context"

// Repository describes squad and chip persistence needs from use cases.
type Repository interface {
	ListPicks(ctx context.Context, entryID, gameweek int) ([]SquadPick, error)
	ListChipUsages(ctx context.Context, entryIDs []int) ([]ChipUsage, error)
}
