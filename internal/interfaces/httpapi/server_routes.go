package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/status", handler.GetGameweekStatus)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/gameweeks/{gameweek}/scores", handler.ListLeagueScores)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/entries/{entryID}/gameweeks/{gameweek}/score", handler.GetEntryScore)
	mux.HandleFunc("POST /v1/points/calculate", handler.CalculatePoints)
}

func registerAnalyticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/luck", handler.GetSeasonLuck)
	mux.HandleFunc("GET /v1/entries/{entryID}/chips", handler.GetChipAvailability)
}
