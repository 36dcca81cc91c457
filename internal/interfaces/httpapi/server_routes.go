package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListPlayersByTeam)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/games/{gameID}/result", handler.GetResultByGame)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("GET /v1/results/{resultID}", handler.GetResult)
	mux.HandleFunc("GET /v1/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/standings/teams", handler.GetTeamStandings)
	mux.HandleFunc("GET /v1/standings/players", handler.GetPlayerLeaderboard)
	mux.HandleFunc("GET /v1/posts", handler.ListPosts)
	mux.HandleFunc("GET /v1/posts/{postID}", handler.GetPost)
}

func registerCaptainRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/captain/games", RequireAuth(verifier, http.HandlerFunc(handler.CreateGame)))
	mux.Handle("PUT /v1/captain/games/{gameID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateGame)))
	mux.Handle("DELETE /v1/captain/games/{gameID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteGame)))
	mux.Handle("POST /v1/captain/games/{gameID}/result", RequireAuth(verifier, http.HandlerFunc(handler.SubmitResult)))
	mux.Handle("PUT /v1/captain/results/{resultID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateResult)))
	mux.Handle("POST /v1/captain/results/{resultID}/approve", RequireAuth(verifier, http.HandlerFunc(handler.ApproveResult)))
	mux.Handle("POST /v1/captain/results/{resultID}/reject", RequireAuth(verifier, http.HandlerFunc(handler.RejectResult)))
	mux.Handle("POST /v1/captain/posts", RequireAuth(verifier, http.HandlerFunc(handler.CreatePost)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/replication/push", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReplicationPush)))
	mux.Handle("POST /v1/internal/replication/pull", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReplicationPull)))
	mux.Handle("POST /v1/internal/replication/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReplicationSync)))
}
