package h2h

import "context"

type Repository interface {
	ListEntries(ctx context.Context, leagueID int) ([]Entry, error)
	ListMatches(ctx context.Context, leagueID int) ([]Match, error)
	GetHistory(ctx context.Context, entryID, event int) (ManagerGWHistory, bool, error)
}
