package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerIngestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.IngestMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/events", handler.IngestMatchEvents)
}

func registerQueryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/matches/{matchID}/teams/{teamID}/stats", handler.GetTeamMatchStats)
	mux.HandleFunc("GET /v1/matches/{matchID}/players/{playerID}/stats", handler.GetPlayerMatchStats)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/teams/{teamID}/stats", handler.GetTeamSeasonStats)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/players/{playerID}/stats", handler.GetPlayerSeasonStats)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillJob)))
}
